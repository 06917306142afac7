package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// JobHandler processes jobs read from streams.
type JobHandler interface {
	Handle(ctx context.Context, stream string, data []byte) error
}

// Consumer consumes scout jobs from Redis Streams via a consumer group.
// Messages are acknowledged only after the handler accepts them; stuck
// pending messages are reclaimed periodically and moved to the dead letter
// stream once they run out of retries.
type Consumer struct {
	client   *redis.Client
	group    string
	consumer string
	streams  []string
	handler  JobHandler
	log      zerolog.Logger

	pendingCheckInterval time.Duration
	pendingIdleTime      time.Duration
	maxRetries           int
}

// ConsumerConfig holds consumer configuration.
type ConsumerConfig struct {
	Group    string
	Consumer string
	Streams  []string
	Handler  JobHandler
	Logger   zerolog.Logger

	PendingCheckInterval time.Duration
	PendingIdleTime      time.Duration
	MaxRetries           int
}

// NewConsumer creates a new Consumer.
func NewConsumer(client *redis.Client, cfg *ConsumerConfig) *Consumer {
	pendingCheckInterval := cfg.PendingCheckInterval
	if pendingCheckInterval == 0 {
		pendingCheckInterval = 30 * time.Second
	}

	pendingIdleTime := cfg.PendingIdleTime
	if pendingIdleTime == 0 {
		pendingIdleTime = 2 * time.Minute
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	return &Consumer{
		client:               client,
		group:                cfg.Group,
		consumer:             cfg.Consumer,
		streams:              cfg.Streams,
		handler:              cfg.Handler,
		log:                  cfg.Logger.With().Str("component", "scout_consumer").Logger(),
		pendingCheckInterval: pendingCheckInterval,
		pendingIdleTime:      pendingIdleTime,
		maxRetries:           maxRetries,
	}
}

// Run starts consuming messages. It blocks until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info().
		Str("group", c.group).
		Str("consumer", c.consumer).
		Strs("streams", c.streams).
		Msg("starting consumer")

	for _, stream := range c.streams {
		c.createConsumerGroup(ctx, stream)
	}

	go c.processPendingMessages(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := c.readMessages(ctx)
		if err != nil {
			if err == redis.Nil {
				continue // No messages
			}
			c.log.Error().Err(err).Msg("error reading from streams")
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range result {
			for _, msg := range stream.Messages {
				if err := c.processMessage(ctx, stream.Stream, msg); err != nil {
					c.log.Error().
						Err(err).
						Str("stream", stream.Stream).
						Str("id", msg.ID).
						Msg("error processing message")
					continue
				}

				if err := c.client.XAck(ctx, stream.Stream, c.group, msg.ID).Err(); err != nil {
					c.log.Error().
						Err(err).
						Str("stream", stream.Stream).
						Str("id", msg.ID).
						Msg("error acknowledging message")
				}
			}
		}
	}
}

// processPendingMessages periodically reclaims stuck pending messages.
func (c *Consumer) processPendingMessages(ctx context.Context) {
	ticker := time.NewTicker(c.pendingCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.claimAndProcessPending(ctx)
		}
	}
}

// claimAndProcessPending claims stuck pending messages and reprocesses them.
func (c *Consumer) claimAndProcessPending(ctx context.Context) {
	for _, stream := range c.streams {
		pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
			Stream: stream,
			Group:  c.group,
			Start:  "-",
			End:    "+",
			Count:  100,
		}).Result()
		if err != nil {
			if err != redis.Nil {
				c.log.Error().Err(err).Str("stream", stream).Msg("error getting pending messages")
			}
			continue
		}

		for _, p := range pending {
			if p.Idle < c.pendingIdleTime {
				continue
			}

			if int(p.RetryCount) >= c.maxRetries {
				c.log.Warn().
					Str("stream", stream).
					Str("id", p.ID).
					Int64("retries", p.RetryCount).
					Msg("message exceeded max retries, moving to DLQ")

				if err := c.moveToDeadLetterQueue(ctx, stream, p.ID); err != nil {
					c.log.Error().Err(err).Str("id", p.ID).Msg("error moving message to DLQ")
				}
				c.client.XAck(ctx, stream, c.group, p.ID)
				continue
			}

			claimed, err := c.client.XClaim(ctx, &redis.XClaimArgs{
				Stream:   stream,
				Group:    c.group,
				Consumer: c.consumer,
				MinIdle:  c.pendingIdleTime,
				Messages: []string{p.ID},
			}).Result()
			if err != nil {
				c.log.Error().Err(err).Str("id", p.ID).Msg("error claiming message")
				continue
			}

			for _, msg := range claimed {
				if err := c.processMessage(ctx, stream, msg); err != nil {
					c.log.Error().
						Err(err).
						Str("stream", stream).
						Str("id", msg.ID).
						Msg("error reprocessing pending message")
					continue
				}

				if err := c.client.XAck(ctx, stream, c.group, msg.ID).Err(); err != nil {
					c.log.Error().Err(err).Str("id", msg.ID).Msg("error acknowledging reprocessed message")
				}
			}
		}
	}
}

// moveToDeadLetterQueue copies an exhausted message onto the DLQ stream.
func (c *Consumer) moveToDeadLetterQueue(ctx context.Context, stream, id string) error {
	msgs, err := c.client.XRange(ctx, stream, id, id).Result()
	if err != nil {
		return fmt.Errorf("failed to read message %s: %w", id, err)
	}
	if len(msgs) == 0 {
		return nil
	}

	values := make(map[string]any, len(msgs[0].Values)+2)
	for k, v := range msgs[0].Values {
		values[k] = v
	}
	values["origin_stream"] = stream
	values["origin_id"] = id

	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamScoutDLQ,
		ID:     "*",
		Values: values,
	}).Err()
}

// createConsumerGroup creates a consumer group if it doesn't exist.
func (c *Consumer) createConsumerGroup(ctx context.Context, stream string) {
	err := c.client.XGroupCreateMkStream(ctx, stream, c.group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		c.log.Warn().Err(err).Str("stream", stream).Msg("error creating consumer group")
	}
}

// readMessages reads messages from all streams using XREADGROUP.
func (c *Consumer) readMessages(ctx context.Context) ([]redis.XStream, error) {
	if len(c.streams) == 0 {
		return nil, redis.Nil
	}

	args := make([]string, len(c.streams)*2)
	for i, stream := range c.streams {
		args[i] = stream
		args[len(c.streams)+i] = ">"
	}

	return c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumer,
		Streams:  args,
		Count:    10,
		Block:    5 * time.Second,
	}).Result()
}

// processMessage processes a single message.
func (c *Consumer) processMessage(ctx context.Context, stream string, msg redis.XMessage) error {
	data, ok := msg.Values["data"]
	if !ok {
		return fmt.Errorf("invalid message format: missing data field")
	}

	dataStr, ok := data.(string)
	if !ok {
		return fmt.Errorf("invalid message format: data is not a string")
	}

	return c.handler.Handle(ctx, stream, []byte(dataStr))
}
