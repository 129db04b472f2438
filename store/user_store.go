package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zap-shift-server/models"
	"zap-shift-server/utils"
)

// MongoUserStore persists users in the users collection
type MongoUserStore struct {
	collection *mongo.Collection
}

// NewMongoUserStore creates a user store backed by the users collection
func NewMongoUserStore(client *mongo.Client) *MongoUserStore {
	return &MongoUserStore{
		collection: client.Database(utils.DatabaseName).Collection("users"),
	}
}

// FindByEmail returns the user with the given email, or nil when none exists
func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, utils.Internal("failed to look up user")
	}
	return &user, nil
}

// Insert stores a new user and returns its id
func (s *MongoUserStore) Insert(ctx context.Context, user *models.User) (string, error) {
	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		return "", utils.Internal("failed to create user")
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// List returns all users
func (s *MongoUserStore) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, utils.Internal("failed to list users")
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, utils.Internal("failed to decode users")
	}
	return users, nil
}

// UpdateRoleByID sets the role of the user with the given id
func (s *MongoUserStore) UpdateRoleByID(ctx context.Context, id, role string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return utils.Validation("invalid user id")
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"role": role},
	})
	if err != nil {
		return utils.Internal("failed to update user role")
	}
	if result.MatchedCount == 0 {
		return utils.NotFound("user not found")
	}
	return nil
}

// UpdateRoleByEmail sets the role of the user with the given email
func (s *MongoUserStore) UpdateRoleByEmail(ctx context.Context, email, role string) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{"role": role},
	})
	if err != nil {
		return utils.Internal("failed to update user role")
	}
	return nil
}
