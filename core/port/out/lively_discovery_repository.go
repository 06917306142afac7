package out

import (
	"context"

	"lively_server/core/domain"
)

// DiscoveryRepository defines the interface for discovery persistence.
type DiscoveryRepository interface {
	// Create inserts a new discovery. Discoveries are never updated in place.
	Create(ctx context.Context, d *domain.Discovery) error

	// ListByUser returns the user's discoveries sorted by createdAt descending.
	ListByUser(ctx context.Context, userID string) ([]*domain.Discovery, error)

	// DeleteByInterest removes every discovery for (userID, relatedInterest)
	// and returns the number deleted.
	DeleteByInterest(ctx context.Context, userID, relatedInterest string) (int64, error)

	// EnsureIndexes creates the indexes the repository relies on.
	EnsureIndexes(ctx context.Context) error
}
