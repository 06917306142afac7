package mongodb

import (
	"context"
	"fmt"
	"time"

	"lively_server/core/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionDiscoveries = "discoveries"

// DiscoveryAdapter implements out.DiscoveryRepository using MongoDB.
type DiscoveryAdapter struct {
	collection *mongo.Collection
}

// NewDiscoveryAdapter creates a new MongoDB discovery adapter.
func NewDiscoveryAdapter(db *mongo.Database) *DiscoveryAdapter {
	return &DiscoveryAdapter{
		collection: db.Collection(collectionDiscoveries),
	}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *DiscoveryAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Read path: newest-first listing per user
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			// Cascade delete by (user, interest)
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "related_interest", Value: 1},
			},
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// discoveryDocument represents the MongoDB document structure.
type discoveryDocument struct {
	ID              string    `bson:"id"`
	UserID          string    `bson:"user_id"`
	RelatedInterest string    `bson:"related_interest"`
	Title           string    `bson:"title"`
	Description     string    `bson:"description"`
	Color           string    `bson:"color"`
	Icon            string    `bson:"icon"`
	CreatedAt       time.Time `bson:"created_at"`
}

// Create inserts a new discovery, assigning ID and CreatedAt when unset.
func (a *DiscoveryAdapter) Create(ctx context.Context, d *domain.Discovery) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	if _, err := a.collection.InsertOne(ctx, toDiscoveryDocument(d)); err != nil {
		return fmt.Errorf("failed to create discovery: %w", err)
	}
	return nil
}

// ListByUser returns the user's discoveries, newest first.
func (a *DiscoveryAdapter) ListByUser(ctx context.Context, userID string) ([]*domain.Discovery, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := a.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list discoveries: %w", err)
	}
	defer cursor.Close(ctx)

	discoveries := []*domain.Discovery{}
	for cursor.Next(ctx) {
		var doc discoveryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode discovery: %w", err)
		}
		discoveries = append(discoveries, toDiscovery(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return discoveries, nil
}

// DeleteByInterest removes all discoveries for (userID, relatedInterest).
func (a *DiscoveryAdapter) DeleteByInterest(ctx context.Context, userID, relatedInterest string) (int64, error) {
	filter := bson.M{
		"user_id":          userID,
		"related_interest": relatedInterest,
	}

	res, err := a.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete discoveries: %w", err)
	}
	return res.DeletedCount, nil
}

func toDiscoveryDocument(d *domain.Discovery) *discoveryDocument {
	return &discoveryDocument{
		ID:              d.ID,
		UserID:          d.UserID,
		RelatedInterest: d.RelatedInterest,
		Title:           d.Title,
		Description:     d.Description,
		Color:           d.Color,
		Icon:            d.Icon,
		CreatedAt:       d.CreatedAt,
	}
}

func toDiscovery(doc *discoveryDocument) *domain.Discovery {
	return &domain.Discovery{
		ID:              doc.ID,
		UserID:          doc.UserID,
		RelatedInterest: doc.RelatedInterest,
		Title:           doc.Title,
		Description:     doc.Description,
		Color:           doc.Color,
		Icon:            doc.Icon,
		CreatedAt:       doc.CreatedAt,
	}
}
