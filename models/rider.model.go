package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rider represents a rider application
type Rider struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Region    string             `bson:"region,omitempty" json:"region,omitempty"`
	Status    string             `bson:"status" json:"status"` // "pending", "active" or "rejected"
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
