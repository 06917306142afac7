// Package messaging provides message queue adapters.
package messaging

import (
	"context"
	"fmt"

	"lively_server/core/port/out"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Stream names
const (
	StreamScoutInterest = "scout:interest"

	// Dead letter stream for jobs that exhausted their retries
	StreamScoutDLQ = "scout:dlq"
)

// RedisProducer implements out.ScoutQueue using Redis Streams. It lets the
// API and the scout worker run as separate processes: the API only appends
// to the stream and returns.
type RedisProducer struct {
	client *redis.Client
}

// NewRedisProducer creates a new RedisProducer.
func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{client: client}
}

// EnqueueScout publishes a scout job to the interest stream.
func (p *RedisProducer) EnqueueScout(ctx context.Context, job *out.ScoutJob) error {
	return p.publish(ctx, StreamScoutInterest, job)
}

// publish appends a job to a stream.
func (p *RedisProducer) publish(ctx context.Context, stream string, job any) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		ID:     "*",
		Values: map[string]any{
			"data": string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", stream, err)
	}

	return nil
}

// Ensure RedisProducer implements out.ScoutQueue
var _ out.ScoutQueue = (*RedisProducer)(nil)
