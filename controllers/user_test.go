package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"zap-shift-server/models"
	"zap-shift-server/utils"
)

func TestCreateUserAssignsDefaultRole(t *testing.T) {
	users := newFakeUserStore()
	uc := NewUserController(users)

	body := `{"name": "Alice", "email": "a@example.com", "role": "admin"}`
	rr := httptest.NewRecorder()
	uc.CreateUser(rr, httptest.NewRequest("POST", "/users", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rr.Code)
	user, err := users.FindByEmail(context.Background(), "a@example.com")
	assert.NoError(t, err)
	if assert.NotNil(t, user) {
		// Client-supplied role is ignored.
		assert.Equal(t, "user", user.Role)
		assert.False(t, user.CreatedAt.IsZero())
	}
}

func TestCreateUserExistingEmailIsNoOp(t *testing.T) {
	users := newFakeUserStore()
	users.Insert(context.Background(), &models.User{Email: "a@example.com", Name: "Alice", Role: "rider"})
	uc := NewUserController(users)

	body := `{"name": "Someone Else", "email": "a@example.com"}`
	rr := httptest.NewRecorder()
	uc.CreateUser(rr, httptest.NewRequest("POST", "/users", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, "user already exists", resp["message"])

	// The existing record is untouched.
	user, _ := users.FindByEmail(context.Background(), "a@example.com")
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "rider", user.Role)
}

func TestCreateUserRequiresEmail(t *testing.T) {
	uc := NewUserController(newFakeUserStore())

	rr := httptest.NewRecorder()
	uc.CreateUser(rr, httptest.NewRequest("POST", "/users", strings.NewReader(`{"name": "Alice"}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin(t *testing.T) {
	users := newFakeUserStore()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	users.Insert(context.Background(), &models.User{
		Email:    "a@example.com",
		Password: string(hash),
		Role:     "user",
	})
	uc := NewUserController(users)

	rr := httptest.NewRecorder()
	uc.Login(rr, httptest.NewRequest("POST", "/login", strings.NewReader(`{"email": "a@example.com", "password": "secret"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	json.Unmarshal(rr.Body.Bytes(), &resp)
	claims, err := utils.ParseJWT(resp["token"])
	assert.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)

	rr = httptest.NewRecorder()
	uc.Login(rr, httptest.NewRequest("POST", "/login", strings.NewReader(`{"email": "a@example.com", "password": "wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	uc.Login(rr, httptest.NewRequest("POST", "/login", strings.NewReader(`{"email": "nobody@example.com", "password": "secret"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetUserRoleDefaultsToUser(t *testing.T) {
	users := newFakeUserStore()
	users.Insert(context.Background(), &models.User{Email: "r@example.com", Role: "rider"})
	uc := NewUserController(users)

	req := withVars(httptest.NewRequest("GET", "/users/r@example.com/role", nil), map[string]string{"email": "r@example.com"})
	rr := httptest.NewRecorder()
	uc.GetUserRole(rr, req)
	var resp map[string]string
	json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, "rider", resp["role"])

	req = withVars(httptest.NewRequest("GET", "/users/unknown@example.com/role", nil), map[string]string{"email": "unknown@example.com"})
	rr = httptest.NewRecorder()
	uc.GetUserRole(rr, req)
	json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, "user", resp["role"])
}

func TestUpdateUserRole(t *testing.T) {
	users := newFakeUserStore()
	users.Insert(context.Background(), &models.User{Email: "a@example.com", Role: "user"})
	user, _ := users.FindByEmail(context.Background(), "a@example.com")
	uc := NewUserController(users)

	id := user.ID.Hex()
	req := withVars(httptest.NewRequest("PATCH", "/users/"+id+"/role", strings.NewReader(`{"role": "admin"}`)), map[string]string{"id": id})
	rr := httptest.NewRecorder()
	uc.UpdateUserRole(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	updated, _ := users.FindByEmail(context.Background(), "a@example.com")
	assert.Equal(t, "admin", updated.Role)

	req = withVars(httptest.NewRequest("PATCH", "/users/"+id+"/role", strings.NewReader(`{"role": "superuser"}`)), map[string]string{"id": id})
	rr = httptest.NewRecorder()
	uc.UpdateUserRole(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
