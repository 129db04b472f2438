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

// MongoParcelStore persists parcels in the parcels collection
type MongoParcelStore struct {
	collection *mongo.Collection
}

// NewMongoParcelStore creates a parcel store backed by the parcels collection
func NewMongoParcelStore(client *mongo.Client) *MongoParcelStore {
	return &MongoParcelStore{
		collection: client.Database(utils.DatabaseName).Collection("parcels"),
	}
}

// List returns parcels newest first, optionally filtered by sender email
func (s *MongoParcelStore) List(ctx context.Context, email string) ([]models.Parcel, error) {
	filter := bson.M{}
	if email != "" {
		filter["sender_email"] = email
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, utils.Internal("failed to list parcels")
	}
	defer cursor.Close(ctx)

	var parcels []models.Parcel
	if err := cursor.All(ctx, &parcels); err != nil {
		return nil, utils.Internal("failed to decode parcels")
	}
	return parcels, nil
}

// Insert stores a new parcel and returns its id
func (s *MongoParcelStore) Insert(ctx context.Context, parcel *models.Parcel) (string, error) {
	result, err := s.collection.InsertOne(ctx, parcel)
	if err != nil {
		return "", utils.Internal("failed to create parcel")
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindByID returns the parcel with the given id
func (s *MongoParcelStore) FindByID(ctx context.Context, id string) (*models.Parcel, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.Validation("invalid parcel id")
	}

	var parcel models.Parcel
	err = s.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&parcel)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("parcel not found")
	}
	if err != nil {
		return nil, utils.Internal("failed to look up parcel")
	}
	return &parcel, nil
}

// Delete removes the parcel with the given id
func (s *MongoParcelStore) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return utils.Validation("invalid parcel id")
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return utils.Internal("failed to delete parcel")
	}
	if result.DeletedCount == 0 {
		return utils.NotFound("parcel not found")
	}
	return nil
}

// MarkPaid sets payment status and tracking id on an unpaid parcel. The
// filter only matches unpaid parcels, so a tracking id that is already
// assigned is never replaced; matched reports whether the update applied.
func (s *MongoParcelStore) MarkPaid(ctx context.Context, id, trackingID string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, utils.Validation("invalid parcel id")
	}

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "payment_status": "unpaid"},
		bson.M{"$set": bson.M{
			"payment_status": "paid",
			"tracking_id":    trackingID,
		}},
	)
	if err != nil {
		return false, utils.Internal("failed to update parcel")
	}
	return result.MatchedCount > 0, nil
}
