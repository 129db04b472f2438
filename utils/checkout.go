package utils

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// MinorUnits converts a price in major currency units to minor units.
// Rounding, not truncation: 19.99 has no exact float representation and
// 19.99*100 lands just below 1999.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CheckoutSession is the slice of a provider session the handlers need
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentStatus   string // "paid" or "unpaid"
	AmountTotal     int64  // minor currency units
	Currency        string
	CustomerEmail   string
	PaymentIntentID string
	Metadata        map[string]string
}

// Paid reports whether the provider has settled the session
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == string(stripe.CheckoutSessionPaymentStatusPaid)
}

// CreateSessionParams carries the inputs for a new checkout session
type CreateSessionParams struct {
	Price      float64 // major currency units
	Currency   string
	Email      string
	ParcelID   string
	ParcelName string
}

// CheckoutService abstracts the hosted checkout provider
type CheckoutService interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

// StripeCheckout implements CheckoutService against the Stripe API
type StripeCheckout struct {
	successURL string
	cancelURL  string
}

// NewStripeCheckout sets the global Stripe key and returns a checkout service
// redirecting to the given frontend URLs
func NewStripeCheckout() *StripeCheckout {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	base := os.Getenv("FRONTEND_URL")
	if base == "" {
		base = "http://localhost:5173"
	}
	return &StripeCheckout{
		successURL: base + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  base + "/payment-cancelled",
	}
}

// CreateSession builds a single-line-item payment session with the parcel id
// and name attached as metadata for the confirmation flow
func (sc *StripeCheckout) CreateSession(ctx context.Context, p CreateSessionParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(p.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(MinorUnits(p.Price)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ParcelName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(sc.successURL),
		CancelURL:  stripe.String(sc.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("parcelId", p.ParcelID)
	params.AddMetadata("parcelName", p.ParcelName)

	s, err := session.New(params)
	if err != nil {
		return nil, Upstream(fmt.Sprintf("failed to create checkout session: %v", err))
	}
	return fromStripeSession(s), nil
}

// GetSession retrieves the current state of a session, expanding the payment
// intent so the transaction id is available
func (sc *StripeCheckout) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, Upstream(fmt.Sprintf("failed to retrieve checkout session %s: %v", sessionID, err))
	}
	return fromStripeSession(s), nil
}

func fromStripeSession(s *stripe.CheckoutSession) *CheckoutSession {
	cs := &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		CustomerEmail: s.CustomerEmail,
		Metadata:      s.Metadata,
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		cs.CustomerEmail = s.CustomerDetails.Email
	}
	if s.PaymentIntent != nil {
		cs.PaymentIntentID = s.PaymentIntent.ID
	}
	return cs
}
