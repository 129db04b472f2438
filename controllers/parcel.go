package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"zap-shift-server/middleware"
	"zap-shift-server/models"
	"zap-shift-server/utils"
)

// ParcelStore is the persistence surface the parcel handlers need
type ParcelStore interface {
	List(ctx context.Context, email string) ([]models.Parcel, error)
	Insert(ctx context.Context, parcel *models.Parcel) (string, error)
	FindByID(ctx context.Context, id string) (*models.Parcel, error)
	Delete(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id, trackingID string) (bool, error)
}

// ParcelController handles parcel-related requests
type ParcelController struct {
	Parcels ParcelStore
}

// NewParcelController creates a new ParcelController
func NewParcelController(parcels ParcelStore) *ParcelController {
	return &ParcelController{Parcels: parcels}
}

// GetParcels lists parcels newest first, optionally filtered by sender email
func (pc *ParcelController) GetParcels(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	parcels, err := pc.Parcels.List(ctx, email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if parcels == nil {
		parcels = []models.Parcel{}
	}
	utils.WriteJSON(w, http.StatusOK, parcels)
}

// CreateParcel books a new parcel. The server stamps the creation time and
// every parcel starts unpaid.
func (pc *ParcelController) CreateParcel(w http.ResponseWriter, r *http.Request) {
	var parcel models.Parcel
	err := json.NewDecoder(r.Body).Decode(&parcel)
	if err != nil {
		utils.WriteError(w, utils.Validation("invalid request body"))
		return
	}

	if parcel.SenderEmail == "" {
		utils.WriteError(w, utils.Validation("sender_email is required"))
		return
	}
	if parcel.Name == "" {
		utils.WriteError(w, utils.Validation("name is required"))
		return
	}
	if parcel.Price <= 0 {
		utils.WriteError(w, utils.Validation("price must be positive"))
		return
	}

	parcel.PaymentStatus = "unpaid"
	parcel.TrackingID = ""
	parcel.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pc.Parcels.Insert(ctx, &parcel)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{"insertedId": id})
}

// GetParcelByID retrieves a single parcel
func (pc *ParcelController) GetParcelByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	parcel, err := pc.Parcels.FindByID(ctx, id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, parcel)
}

// DeleteParcel removes a parcel. Only its sender or an admin may delete it.
func (pc *ParcelController) DeleteParcel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, utils.Unauthorized("missing credentials"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	parcel, err := pc.Parcels.FindByID(ctx, id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if parcel.SenderEmail != claims.Email && claims.Role != "admin" {
		utils.WriteError(w, utils.Forbidden("only the sender can delete this parcel"))
		return
	}

	if err := pc.Parcels.Delete(ctx, id); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "parcel deleted"})
}
