package bootstrap

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"lively_server/adapter/in/worker"
	"lively_server/adapter/out/messaging"
	"lively_server/config"
	"lively_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Scout runs the background scouting pipeline: a worker pool that turns
// interests into stored discoveries, fed either by a Redis Streams consumer
// or by in-process submissions from the API.
type Scout struct {
	pool     *worker.Pool
	consumer *messaging.Consumer
	deps     *Dependencies
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewScout(cfg *config.Config) (*Scout, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		return nil, nil, err
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "scout").Logger()

	ctx, cancel := context.WithCancel(context.Background())

	s := &Scout{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
	}

	if deps.Pool != nil {
		// In-process mode: the API's queue already feeds this pool
		s.pool = deps.Pool
	} else {
		processor := worker.NewScoutProcessor(deps.Recommender, deps.DiscoveryRepo)
		handler := worker.NewHandler(processor)
		s.pool = worker.NewPool(handler, scoutPoolConfig(cfg), zlog)
	}

	if deps.Redis != nil {
		s.consumer = messaging.NewConsumer(deps.Redis, &messaging.ConsumerConfig{
			Group:    cfg.ConsumerGroup,
			Consumer: cfg.ScoutID,
			Streams:  []string{messaging.StreamScoutInterest},
			Handler:  &streamHandler{pool: s.pool},
			Logger:   zlog,

			PendingCheckInterval: time.Duration(cfg.ConsumerPendingCheckSec) * time.Second,
			PendingIdleTime:      time.Duration(cfg.ConsumerPendingIdleSec) * time.Second,
			MaxRetries:           cfg.ScoutMaxRetries,
		})
		logger.Info("Redis Stream consumer configured (group: %s, consumer: %s)", cfg.ConsumerGroup, cfg.ScoutID)
	} else {
		logger.Warn("Redis not configured, scout only processes in-process submissions")
	}

	return s, cleanup, nil
}

// Start starts the pool and the stream consumer, then blocks until Stop
// is called.
func (s *Scout) Start() {
	s.pool.Start()

	if s.consumer != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.consumer.Run(s.ctx); err != nil && err != context.Canceled {
				logger.Error("Stream consumer stopped: %v", err)
			}
		}()
	}

	logger.Info("Scout worker running")
	<-s.ctx.Done()
}

// Stop shuts the scout down: the consumer exits first so no new jobs
// arrive while the pool drains.
func (s *Scout) Stop() {
	s.cancel()
	s.wg.Wait()
	s.pool.Stop()
}

// streamHandler bridges Redis Stream messages into the worker pool.
type streamHandler struct {
	pool *worker.Pool
}

func (h *streamHandler) Handle(ctx context.Context, stream string, data []byte) error {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.WithError(err).Error("Failed to parse scout job from stream %s", stream)
		return err
	}

	msg := worker.NewMessage(worker.JobScoutInterest, payload)
	if !h.pool.Submit(msg) {
		// Not acked: the message stays pending and is reclaimed later
		return fmt.Errorf("scout pool rejected job from stream %s", stream)
	}
	return nil
}
