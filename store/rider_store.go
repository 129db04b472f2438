package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zap-shift-server/models"
	"zap-shift-server/utils"
)

// MongoRiderStore persists rider applications in the riders collection
type MongoRiderStore struct {
	collection *mongo.Collection
}

// NewMongoRiderStore creates a rider store backed by the riders collection
func NewMongoRiderStore(client *mongo.Client) *MongoRiderStore {
	return &MongoRiderStore{
		collection: client.Database(utils.DatabaseName).Collection("riders"),
	}
}

// List returns riders, optionally filtered by status
func (s *MongoRiderStore) List(ctx context.Context, status string) ([]models.Rider, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, utils.Internal("failed to list riders")
	}
	defer cursor.Close(ctx)

	var riders []models.Rider
	if err := cursor.All(ctx, &riders); err != nil {
		return nil, utils.Internal("failed to decode riders")
	}
	return riders, nil
}

// Insert stores a new rider application and returns its id
func (s *MongoRiderStore) Insert(ctx context.Context, rider *models.Rider) (string, error) {
	result, err := s.collection.InsertOne(ctx, rider)
	if err != nil {
		return "", utils.Internal("failed to create rider")
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindByID returns the rider with the given id
func (s *MongoRiderStore) FindByID(ctx context.Context, id string) (*models.Rider, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.Validation("invalid rider id")
	}

	var rider models.Rider
	err = s.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&rider)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("rider not found")
	}
	if err != nil {
		return nil, utils.Internal("failed to look up rider")
	}
	return &rider, nil
}

// UpdateStatus sets the status of the rider with the given id
func (s *MongoRiderStore) UpdateStatus(ctx context.Context, id, status string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return utils.Validation("invalid rider id")
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"status": status},
	})
	if err != nil {
		return utils.Internal("failed to update rider status")
	}
	if result.MatchedCount == 0 {
		return utils.NotFound("rider not found")
	}
	return nil
}
