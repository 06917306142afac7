package worker

import (
	"context"
	"fmt"

	"lively_server/core/domain"
	"lively_server/core/port/out"
	"lively_server/pkg/logger"
)

// ScoutProcessor handles scout jobs: one interest in, one persisted
// discovery out. Generation itself never fails (fallback recommendation),
// so the only error path is persistence, which feeds the pool's retry
// machinery and is never visible to any HTTP caller.
type ScoutProcessor struct {
	recommender   out.Recommender
	discoveryRepo out.DiscoveryRepository
}

func NewScoutProcessor(recommender out.Recommender, discoveryRepo out.DiscoveryRepository) *ScoutProcessor {
	return &ScoutProcessor{
		recommender:   recommender,
		discoveryRepo: discoveryRepo,
	}
}

// ProcessInterest scouts one interest for one user.
func (p *ScoutProcessor) ProcessInterest(ctx context.Context, msg *Message) error {
	job, err := ParsePayload[out.ScoutJob](msg)
	if err != nil {
		// A payload that never parses will never parse on retry either.
		logger.WithError(err).Error("Dropping malformed scout job %s", msg.ID)
		return nil
	}
	if job.UserID == "" || job.Interest == "" {
		logger.Warn("Dropping scout job %s with empty user or interest", msg.ID)
		return nil
	}

	logger.WithField("user_id", job.UserID).Info("Agent scouting for: %s", job.Interest)

	rec := p.recommender.Generate(ctx, job.Interest)

	discovery := &domain.Discovery{
		UserID:          job.UserID,
		RelatedInterest: job.Interest,
		Title:           rec.Title,
		Description:     rec.Description,
		Color:           rec.Color,
		Icon:            rec.Icon,
	}

	if err := p.discoveryRepo.Create(ctx, discovery); err != nil {
		return fmt.Errorf("persist discovery for %q: %w", job.Interest, err)
	}

	logger.WithField("user_id", job.UserID).Info("Agent found: %s", rec.Title)
	return nil
}
