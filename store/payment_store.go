package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zap-shift-server/models"
	"zap-shift-server/utils"
)

// MongoPaymentStore persists payments in the payments collection. The
// collection carries a unique index on transaction_id (utils.EnsureIndexes).
type MongoPaymentStore struct {
	collection *mongo.Collection
}

// NewMongoPaymentStore creates a payment store backed by the payments collection
func NewMongoPaymentStore(client *mongo.Client) *MongoPaymentStore {
	return &MongoPaymentStore{
		collection: client.Database(utils.DatabaseName).Collection("payments"),
	}
}

// FindByTransactionID returns the payment for the given transaction id, or
// nil when none exists
func (s *MongoPaymentStore) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.collection.FindOne(ctx, bson.M{"transaction_id": transactionID}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, utils.Internal("failed to look up payment")
	}
	return &payment, nil
}

// Insert stores a new payment. A concurrent confirmation of the same
// transaction surfaces as a duplicate-key error, reported as a conflict so
// the caller can short-circuit to the already-processed path.
func (s *MongoPaymentStore) Insert(ctx context.Context, payment *models.Payment) (string, error) {
	result, err := s.collection.InsertOne(ctx, payment)
	if mongo.IsDuplicateKeyError(err) {
		return "", utils.Conflict("payment already exists for transaction " + payment.TransactionID)
	}
	if err != nil {
		return "", utils.Internal("failed to record payment")
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ListByEmail returns the payments made by the given payer, newest first
func (s *MongoPaymentStore) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "paid_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, utils.Internal("failed to list payments")
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, utils.Internal("failed to decode payments")
	}
	return payments, nil
}
