package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"zap-shift-server/middleware"
	"zap-shift-server/models"
	"zap-shift-server/utils"
)

// UserStore is the persistence surface the user handlers need
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (string, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRoleByID(ctx context.Context, id, role string) error
	UpdateRoleByEmail(ctx context.Context, email, role string) error
}

// UserController handles user-related requests
type UserController struct {
	Users UserStore
}

// NewUserController creates a new UserController
func NewUserController(users UserStore) *UserController {
	return &UserController{Users: users}
}

// CreateUser handles user creation. Creating a user whose email already
// exists is a no-op acknowledged with a message rather than an error.
func (uc *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		models.User
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		utils.WriteError(w, utils.Validation("invalid request body"))
		return
	}
	user := body.User

	if user.Email == "" {
		utils.WriteError(w, utils.Validation("email is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	existing, err := uc.Users.FindByEmail(ctx, user.Email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if existing != nil {
		utils.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "user already exists",
		})
		return
	}

	if body.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.WriteError(w, utils.Internal("failed to hash password"))
			return
		}
		user.Password = string(hashedPassword)
	}
	user.Role = "user" // Default role
	user.CreatedAt = time.Now().UTC()

	id, err := uc.Users.Insert(ctx, &user)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{"insertedId": id})
}

// Login verifies a user's credentials and returns a signed token
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		utils.WriteError(w, utils.Validation("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByEmail(ctx, creds.Email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if user == nil || user.Password == "" {
		utils.WriteError(w, utils.Unauthorized("invalid email or password"))
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password))
	if err != nil {
		utils.WriteError(w, utils.Unauthorized("invalid email or password"))
		return
	}

	token, err := utils.GenerateJWT(user.Email, user.Role)
	if err != nil {
		utils.WriteError(w, utils.Internal("failed to generate token"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetUsers retrieves all users (admin only)
func (uc *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users, err := uc.Users.List(ctx)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

// GetUserRole returns the role for an email, defaulting to "user" when the
// email is unknown
func (uc *UserController) GetUserRole(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByEmail(ctx, email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	role := "user"
	if user != nil && user.Role != "" {
		role = user.Role
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"role": role})
}

// UpdateUserRole sets a user's role (admin only)
func (uc *UserController) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		Role string `json:"role"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		utils.WriteError(w, utils.Validation("invalid request body"))
		return
	}
	if body.Role != "user" && body.Role != "rider" && body.Role != "admin" {
		utils.WriteError(w, utils.Validation("invalid role"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := uc.Users.UpdateRoleByID(ctx, id, body.Role); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "role updated"})
}

// requireSelf ensures the authenticated caller is acting on their own email
func requireSelf(r *http.Request, email string) error {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		return utils.Unauthorized("missing credentials")
	}
	if claims.Email != email && claims.Role != "admin" {
		return utils.Forbidden("email does not match credentials")
	}
	return nil
}
