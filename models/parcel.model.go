package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Parcel represents a parcel booked for delivery
type Parcel struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SenderEmail   string             `bson:"sender_email" json:"sender_email"`
	Name          string             `bson:"name" json:"name"`
	Type          string             `bson:"type,omitempty" json:"type,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"` // "unpaid" or "paid"
	TrackingID    string             `bson:"tracking_id,omitempty" json:"tracking_id,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
