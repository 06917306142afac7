package worker

import (
	"context"
	"fmt"

	"lively_server/core/port/out"
)

// PoolQueue implements out.ScoutQueue by submitting directly to an
// in-process pool. Used when no Redis is configured and the API and scout
// worker share one process.
type PoolQueue struct {
	pool *Pool
}

func NewPoolQueue(pool *Pool) *PoolQueue {
	return &PoolQueue{pool: pool}
}

// EnqueueScout hands the job to the pool without waiting for it.
func (q *PoolQueue) EnqueueScout(ctx context.Context, job *out.ScoutJob) error {
	msg := NewMessage(JobScoutInterest, map[string]any{
		"user_id":      job.UserID,
		"interest":     job.Interest,
		"requested_at": job.RequestedAt,
	})

	if !q.pool.Submit(msg) {
		return fmt.Errorf("scout pool rejected job for %q", job.Interest)
	}
	return nil
}

var _ out.ScoutQueue = (*PoolQueue)(nil)
