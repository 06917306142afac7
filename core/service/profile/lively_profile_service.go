package profile

import (
	"context"
	"fmt"
	"time"

	"lively_server/core/domain"
	"lively_server/core/port/in"
	"lively_server/core/port/out"
	"lively_server/pkg/logger"
)

// Service implements in.ProfileService
type Service struct {
	profileRepo   out.ProfileRepository
	discoveryRepo out.DiscoveryRepository
	scoutQueue    out.ScoutQueue
}

// NewService creates a new ProfileService
func NewService(profileRepo out.ProfileRepository, discoveryRepo out.DiscoveryRepository, scoutQueue out.ScoutQueue) in.ProfileService {
	return &Service{
		profileRepo:   profileRepo,
		discoveryRepo: discoveryRepo,
		scoutQueue:    scoutQueue,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*in.ProfileResponse, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	discoveries, err := s.discoveryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list discoveries: %w", err)
	}
	if discoveries == nil {
		discoveries = []*domain.Discovery{}
	}

	interests := profile.Interests
	if interests == nil {
		interests = []string{}
	}

	return &in.ProfileResponse{
		Interests:   interests,
		Discoveries: discoveries,
	}, nil
}

func (s *Service) AddInterest(ctx context.Context, userID, interest string) ([]string, error) {
	// An absent or empty interest is a no-op add, not an error.
	if interest == "" {
		profile, err := s.profileRepo.GetOrCreate(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get profile: %w", err)
		}
		return nonNil(profile.Interests), nil
	}

	added, interests, err := s.profileRepo.AddInterest(ctx, userID, interest)
	if err != nil {
		return nil, fmt.Errorf("add interest: %w", err)
	}

	// Only a newly stored interest triggers scouting. The interest is
	// durable at this point; job delivery is best-effort, so an enqueue
	// failure is logged and dropped rather than failing the request.
	if added {
		job := &out.ScoutJob{
			UserID:      userID,
			Interest:    interest,
			RequestedAt: time.Now().UTC(),
		}
		if err := s.scoutQueue.EnqueueScout(ctx, job); err != nil {
			logger.WithError(err).
				WithField("user_id", userID).
				Warn("Failed to enqueue scout job for %q", interest)
		}
	}

	return nonNil(interests), nil
}

func (s *Service) RemoveInterest(ctx context.Context, userID, interest string) ([]string, error) {
	interests, existed, err := s.profileRepo.RemoveInterest(ctx, userID, interest)
	if err != nil {
		return nil, fmt.Errorf("remove interest: %w", err)
	}
	if !existed {
		return []string{}, nil
	}

	// Cascade: discoveries for a removed interest must not survive it.
	// This only covers discoveries present now; a scout racing this
	// removal may still land one afterward.
	deleted, err := s.discoveryRepo.DeleteByInterest(ctx, userID, interest)
	if err != nil {
		return nil, fmt.Errorf("delete discoveries: %w", err)
	}
	if deleted > 0 {
		logger.WithField("user_id", userID).
			Info("Removed %d discoveries for interest %q", deleted, interest)
	}

	return nonNil(interests), nil
}

func nonNil(interests []string) []string {
	if interests == nil {
		return []string{}
	}
	return interests
}
