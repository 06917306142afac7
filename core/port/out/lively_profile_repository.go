package out

import (
	"context"

	"lively_server/core/domain"
)

// ProfileRepository defines the interface for user profile persistence.
// Mutations are atomic at the store level so concurrent add/remove on the
// same profile cannot lose writes.
type ProfileRepository interface {
	// GetOrCreate returns the profile, creating an empty one if the user
	// has never been seen.
	GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error)

	// AddInterest appends the interest unless already present, creating
	// the profile if needed. added reports whether the interest was newly
	// stored; interests is the list after the operation.
	AddInterest(ctx context.Context, userID, interest string) (added bool, interests []string, err error)

	// RemoveInterest removes the interest if the profile exists. existed
	// reports whether the profile was found; interests is the list after
	// the operation (empty when the profile never existed).
	RemoveInterest(ctx context.Context, userID, interest string) (interests []string, existed bool, err error)

	// EnsureIndexes creates the indexes the repository relies on.
	EnsureIndexes(ctx context.Context) error
}
