package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"zap-shift-server/models"
	"zap-shift-server/utils"
)

// RiderStore is the persistence surface the rider handlers need
type RiderStore interface {
	List(ctx context.Context, status string) ([]models.Rider, error)
	Insert(ctx context.Context, rider *models.Rider) (string, error)
	FindByID(ctx context.Context, id string) (*models.Rider, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// RiderController handles rider applications and approvals
type RiderController struct {
	Riders       RiderStore
	Users        UserStore
	EmailService *utils.EmailService
}

// NewRiderController creates a new RiderController
func NewRiderController(riders RiderStore, users UserStore, emailService *utils.EmailService) *RiderController {
	return &RiderController{
		Riders:       riders,
		Users:        users,
		EmailService: emailService,
	}
}

// GetRiders lists rider applications, optionally filtered by status
func (rc *RiderController) GetRiders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	riders, err := rc.Riders.List(ctx, status)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if riders == nil {
		riders = []models.Rider{}
	}
	utils.WriteJSON(w, http.StatusOK, riders)
}

// CreateRider submits a rider application. Applications start pending and
// the server stamps the creation time.
func (rc *RiderController) CreateRider(w http.ResponseWriter, r *http.Request) {
	var rider models.Rider
	err := json.NewDecoder(r.Body).Decode(&rider)
	if err != nil {
		utils.WriteError(w, utils.Validation("invalid request body"))
		return
	}

	if rider.Email == "" {
		utils.WriteError(w, utils.Validation("email is required"))
		return
	}
	if rider.Name == "" {
		utils.WriteError(w, utils.Validation("name is required"))
		return
	}

	rider.Status = "pending"
	rider.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := rc.Riders.Insert(ctx, &rider)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{"insertedId": id})
}

// UpdateRiderStatus changes an application's status (admin only). Approving
// a rider additionally promotes the matching user record to the rider role.
func (rc *RiderController) UpdateRiderStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		Status string `json:"status"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		utils.WriteError(w, utils.Validation("invalid request body"))
		return
	}
	if body.Status != "pending" && body.Status != "active" && body.Status != "rejected" {
		utils.WriteError(w, utils.Validation("invalid status"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rider, err := rc.Riders.FindByID(ctx, id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := rc.Riders.UpdateStatus(ctx, id, body.Status); err != nil {
		utils.WriteError(w, err)
		return
	}

	if body.Status == "active" {
		if err := rc.Users.UpdateRoleByEmail(ctx, rider.Email, "rider"); err != nil {
			utils.WriteError(w, err)
			return
		}

		if rc.EmailService != nil {
			go func(email, name string) {
				if err := rc.EmailService.SendRiderApprovalEmail(email, name); err != nil {
					log.Printf("Failed to send email to %s: %v", email, err)
				}
			}(rider.Email, rider.Name)
		}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "rider status updated"})
}
