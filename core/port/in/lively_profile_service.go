package in

import (
	"context"

	"lively_server/core/domain"
)

// ProfileResponse is the payload returned by GetProfile. Discoveries are
// sorted newest first and the slice is never nil.
type ProfileResponse struct {
	Interests   []string            `json:"interests"`
	Discoveries []*domain.Discovery `json:"discoveries"`
}

// ProfileService defines the interface for profile operations
type ProfileService interface {
	// GetProfile lazily creates the profile if absent and returns the
	// interests together with the user's discoveries.
	GetProfile(ctx context.Context, userID string) (*ProfileResponse, error)

	// AddInterest appends the interest if not already present and, for a
	// newly added interest, enqueues a scout job without waiting for it.
	// Returns the current interests list.
	AddInterest(ctx context.Context, userID, interest string) ([]string, error)

	// RemoveInterest removes the interest and cascade-deletes the
	// discoveries it produced. Returns the current interests list, or an
	// empty list if the profile never existed.
	RemoveInterest(ctx context.Context, userID, interest string) ([]string, error)
}
