package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment represents a settled checkout for a parcel. TransactionID is the
// provider's payment-intent id and carries a unique index, so at most one
// record can ever exist per transaction.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Price         float64            `bson:"price" json:"price"` // major currency units
	Currency      string             `bson:"currency" json:"currency"`
	Email         string             `bson:"email" json:"email"`
	ParcelID      string             `bson:"parcel_id" json:"parcel_id"`
	ParcelName    string             `bson:"parcel_name" json:"parcel_name"`
	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"`
	TrackingID    string             `bson:"tracking_id" json:"tracking_id"`
	PaidAt        time.Time          `bson:"paid_at" json:"paid_at"`
}
