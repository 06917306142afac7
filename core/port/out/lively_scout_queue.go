package out

import (
	"context"
	"time"
)

// ScoutJob is the unit of background scouting work: generate one discovery
// for an interest the user just added.
type ScoutJob struct {
	UserID      string    `json:"user_id"`
	Interest    string    `json:"interest"`
	RequestedAt time.Time `json:"requested_at"`
}

// ScoutQueue is the submission boundary for fire-and-forget scouting.
// Enqueue must return quickly: callers have already answered their HTTP
// request and only hand the job off. Delivery is best-effort, at most once
// per submission.
type ScoutQueue interface {
	EnqueueScout(ctx context.Context, job *ScoutJob) error
}
