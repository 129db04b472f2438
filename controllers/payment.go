package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"zap-shift-server/clients"
	"zap-shift-server/models"
	"zap-shift-server/utils"
)

// DeliveryEventsQueue receives a message for every confirmed payment so
// downstream dispatch tooling can pick the parcel up
const DeliveryEventsQueue = "delivery_events"

// PaymentStore is the persistence surface the payment handlers need
type PaymentStore interface {
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	Insert(ctx context.Context, payment *models.Payment) (string, error)
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
}

// PaymentController handles checkout sessions and payment confirmation
type PaymentController struct {
	Checkout     utils.CheckoutService
	Parcels      ParcelStore
	Payments     PaymentStore
	Publisher    clients.AmqpClient
	EmailService *utils.EmailService
}

// NewPaymentController creates a new PaymentController. Publisher and
// emailService may be nil, which disables the corresponding side effect.
func NewPaymentController(checkout utils.CheckoutService, parcels ParcelStore, payments PaymentStore, publisher clients.AmqpClient, emailService *utils.EmailService) *PaymentController {
	return &PaymentController{
		Checkout:     checkout,
		Parcels:      parcels,
		Payments:     payments,
		Publisher:    publisher,
		EmailService: emailService,
	}
}

// ConfirmationResult is the response body of VerifyPayment. Outcome is
// "pending" when the session is not paid yet and "confirmed" once the parcel
// is marked paid; TrackingID always equals the value persisted on the parcel
// and the payment record.
type ConfirmationResult struct {
	Outcome          string          `json:"outcome"`
	AlreadyProcessed bool            `json:"alreadyProcessed,omitempty"`
	ParcelID         string          `json:"parcelId,omitempty"`
	TrackingID       string          `json:"trackingId,omitempty"`
	TransactionID    string          `json:"transactionId,omitempty"`
	Payment          *models.Payment `json:"payment,omitempty"`
}

// parcelPaidEvent is the message published to the delivery events queue
type parcelPaidEvent struct {
	ParcelID      string    `json:"parcel_id"`
	ParcelName    string    `json:"parcel_name"`
	TrackingID    string    `json:"tracking_id"`
	Email         string    `json:"email"`
	TransactionID string    `json:"transaction_id"`
	PaidAt        time.Time `json:"paid_at"`
}

// CreatePaymentSession builds a hosted checkout session for a parcel and
// returns its redirect URL
func (pc *PaymentController) CreatePaymentSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Price      float64 `json:"price"`
		ParcelID   string  `json:"parcelId"`
		ParcelName string  `json:"parcelName"`
		Email      string  `json:"email"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		utils.WriteError(w, utils.Validation("invalid request body"))
		return
	}

	if body.ParcelID == "" || body.ParcelName == "" || body.Email == "" {
		utils.WriteError(w, utils.Validation("parcelId, parcelName and email are required"))
		return
	}
	if body.Price <= 0 {
		utils.WriteError(w, utils.Validation("price must be positive"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	session, err := pc.Checkout.CreateSession(ctx, utils.CreateSessionParams{
		Price:      body.Price,
		Currency:   "usd",
		Email:      body.Email,
		ParcelID:   body.ParcelID,
		ParcelName: body.ParcelName,
	})
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": session.URL})
}

// VerifyPayment confirms a checkout session and assigns the parcel its
// tracking id. The unique index on transaction ids plus the unpaid-only
// parcel update make the whole operation idempotent: repeating or racing the
// call for the same session yields exactly one payment record and never
// replaces an assigned tracking id.
func (pc *PaymentController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		utils.WriteError(w, utils.Validation("session_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	session, err := pc.Checkout.GetSession(ctx, sessionID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if !session.Paid() {
		utils.WriteJSON(w, http.StatusOK, ConfirmationResult{Outcome: "pending"})
		return
	}

	parcelID := session.Metadata["parcelId"]
	if parcelID == "" {
		utils.WriteError(w, utils.Upstream("session is missing parcel metadata"))
		return
	}
	if session.PaymentIntentID == "" {
		utils.WriteError(w, utils.Upstream("session is missing its payment intent"))
		return
	}

	existing, err := pc.Payments.FindByTransactionID(ctx, session.PaymentIntentID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if existing != nil {
		utils.WriteJSON(w, http.StatusOK, ConfirmationResult{
			Outcome:          "confirmed",
			AlreadyProcessed: true,
			ParcelID:         existing.ParcelID,
			TrackingID:       existing.TrackingID,
			TransactionID:    existing.TransactionID,
			Payment:          existing,
		})
		return
	}

	// One tracking id per confirmation: the same value goes onto the
	// parcel, into the payment record and back to the caller.
	trackingID, err := utils.NewTrackingID()
	if err != nil {
		utils.WriteError(w, utils.Internal("failed to generate tracking id"))
		return
	}

	marked, err := pc.Parcels.MarkPaid(ctx, parcelID, trackingID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if !marked {
		// The parcel was not in the unpaid state. If an earlier
		// confirmation already paid it, keep its tracking id.
		parcel, err := pc.Parcels.FindByID(ctx, parcelID)
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		if parcel.PaymentStatus != "paid" || parcel.TrackingID == "" {
			utils.WriteError(w, utils.Internal("parcel could not be marked paid"))
			return
		}
		trackingID = parcel.TrackingID
	}

	payment := models.Payment{
		Price:         float64(session.AmountTotal) / 100,
		Currency:      session.Currency,
		Email:         session.CustomerEmail,
		ParcelID:      parcelID,
		ParcelName:    session.Metadata["parcelName"],
		TransactionID: session.PaymentIntentID,
		PaymentStatus: session.PaymentStatus,
		TrackingID:    trackingID,
		PaidAt:        time.Now().UTC(),
	}

	_, err = pc.Payments.Insert(ctx, &payment)
	if err != nil {
		apiErr, ok := err.(*utils.APIError)
		if ok && apiErr.Kind == utils.KindConflict {
			// A concurrent confirmation won the insert. Report its
			// record instead of failing.
			winner, ferr := pc.Payments.FindByTransactionID(ctx, session.PaymentIntentID)
			if ferr == nil && winner != nil {
				utils.WriteJSON(w, http.StatusOK, ConfirmationResult{
					Outcome:          "confirmed",
					AlreadyProcessed: true,
					ParcelID:         winner.ParcelID,
					TrackingID:       winner.TrackingID,
					TransactionID:    winner.TransactionID,
					Payment:          winner,
				})
				return
			}
		}
		utils.WriteError(w, err)
		return
	}

	pc.notifyPaid(payment)

	utils.WriteJSON(w, http.StatusOK, ConfirmationResult{
		Outcome:       "confirmed",
		ParcelID:      parcelID,
		TrackingID:    trackingID,
		TransactionID: payment.TransactionID,
		Payment:       &payment,
	})
}

// notifyPaid fires the best-effort side effects of a confirmation
func (pc *PaymentController) notifyPaid(payment models.Payment) {
	if pc.Publisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			event, err := json.Marshal(parcelPaidEvent{
				ParcelID:      payment.ParcelID,
				ParcelName:    payment.ParcelName,
				TrackingID:    payment.TrackingID,
				Email:         payment.Email,
				TransactionID: payment.TransactionID,
				PaidAt:        payment.PaidAt,
			})
			if err != nil {
				log.Printf("Failed to encode delivery event: %v", err)
				return
			}
			if err := pc.Publisher.Publish(ctx, DeliveryEventsQueue, event); err != nil {
				log.Printf("Failed to publish delivery event for %s: %v", payment.ParcelID, err)
			}
		}()
	}

	if pc.EmailService != nil {
		go func(email string) {
			if err := pc.EmailService.SendPaymentReceiptEmail(email, payment); err != nil {
				log.Printf("Failed to send email to %s: %v", email, err)
			}
		}(payment.Email)
	}
}

// GetPayments lists the caller's payments. The query email must match the
// verified token email.
func (pc *PaymentController) GetPayments(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		utils.WriteError(w, utils.Validation("email is required"))
		return
	}

	if err := requireSelf(r, email); err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	payments, err := pc.Payments.ListByEmail(ctx, email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	utils.WriteJSON(w, http.StatusOK, payments)
}
