package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lively_server/core/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionUsers = "users"

// ProfileAdapter implements out.ProfileRepository using MongoDB.
//
// All mutations go through atomic update operators ($addToSet, $pull) so
// concurrent add/remove on the same profile cannot lose writes the way a
// read-modify-persist cycle would.
type ProfileAdapter struct {
	collection *mongo.Collection
}

// NewProfileAdapter creates a new MongoDB profile adapter.
func NewProfileAdapter(db *mongo.Database) *ProfileAdapter {
	return &ProfileAdapter{
		collection: db.Collection(collectionUsers),
	}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *ProfileAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// profileDocument represents the MongoDB document structure.
type profileDocument struct {
	UserID    string    `bson:"user_id"`
	Interests []string  `bson:"interests"`
	CreatedAt time.Time `bson:"created_at"`
}

// GetOrCreate returns the user's profile, inserting an empty one on first
// contact.
func (a *ProfileAdapter) GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error) {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"interests":  []string{},
			"created_at": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc profileDocument
	if err := a.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get or create profile: %w", err)
	}

	return toProfile(&doc), nil
}

// AddInterest appends the interest via $addToSet (exact-match dedup),
// creating the profile if needed.
func (a *ProfileAdapter) AddInterest(ctx context.Context, userID, interest string) (bool, []string, error) {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$addToSet":    bson.M{"interests": interest},
		"$setOnInsert": bson.M{"user_id": userID, "created_at": time.Now().UTC()},
	}

	res, err := a.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, nil, fmt.Errorf("failed to add interest: %w", err)
	}
	added := res.ModifiedCount > 0 || res.UpsertedCount > 0

	interests, err := a.interests(ctx, userID)
	if err != nil {
		return false, nil, err
	}
	return added, interests, nil
}

// RemoveInterest pulls the interest out of the profile's array. A profile
// that never existed is reported via existed=false, never created.
func (a *ProfileAdapter) RemoveInterest(ctx context.Context, userID, interest string) ([]string, bool, error) {
	filter := bson.M{"user_id": userID}
	update := bson.M{"$pull": bson.M{"interests": interest}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc profileDocument
	err := a.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to remove interest: %w", err)
	}

	return toProfile(&doc).Interests, true, nil
}

func (a *ProfileAdapter) interests(ctx context.Context, userID string) ([]string, error) {
	var doc profileDocument
	if err := a.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to read interests: %w", err)
	}
	return toProfile(&doc).Interests, nil
}

func toProfile(doc *profileDocument) *domain.UserProfile {
	interests := doc.Interests
	if interests == nil {
		interests = []string{}
	}
	return &domain.UserProfile{
		UserID:    doc.UserID,
		Interests: interests,
		CreatedAt: doc.CreatedAt,
	}
}
