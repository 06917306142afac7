package worker

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/pool"
	"github.com/rs/zerolog"
)

// PoolConfig holds worker pool configuration.
type PoolConfig struct {
	MaxWorkers     int           // worker goroutines
	QueueSize      int           // job queue capacity
	JobTimeout     time.Duration // per-job deadline
	MaxRetries     int           // retries before a job is dropped
	WorkerChanSize int           // worker channel buffer size
}

// DefaultPoolConfig returns default pool configuration.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxWorkers:     8,
		QueueSize:      256,
		JobTimeout:     90 * time.Second,
		MaxRetries:     3,
		WorkerChanSize: 32,
	}
}

// Pool runs scout jobs on a bounded go-pkgz/pool worker group. Failed jobs
// are retried with exponential backoff plus jitter; after MaxRetries the
// job is dropped and logged. Scouting is best-effort by contract, so a
// dropped job is a log line, not an error anyone waits on.
type Pool struct {
	handler *Handler
	config  *PoolConfig

	group *pool.WorkerGroup[*Message]

	ctx    context.Context
	cancel context.CancelFunc

	metrics PoolMetrics
	log     zerolog.Logger

	started bool
	mu      sync.Mutex
}

// PoolMetrics holds pool counters.
type PoolMetrics struct {
	JobsProcessed int64
	JobsFailed    int64
	JobsRetried   int64
	QueueSize     int32
}

// messageWorker implements pool.Worker for Message processing.
type messageWorker struct {
	pool *Pool
}

// Do implements pool.Worker interface.
func (w *messageWorker) Do(ctx context.Context, msg *Message) error {
	return w.pool.processJob(ctx, msg)
}

// NewPool creates a new worker pool.
func NewPool(handler *Handler, config *PoolConfig, log zerolog.Logger) *Pool {
	if config == nil {
		config = DefaultPoolConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		handler: handler,
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
		log:     log.With().Str("component", "scout_pool").Logger(),
	}
}

// Start starts the worker pool.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	worker := &messageWorker{pool: p}
	p.group = pool.New[*Message](p.config.MaxWorkers, worker).
		WithWorkerChanSize(p.config.WorkerChanSize).
		WithContinueOnError()

	if err := p.group.Go(p.ctx); err != nil {
		p.log.Error().Err(err).Msg("failed to start pool")
		return
	}

	p.started = true

	p.log.Info().
		Int("max_workers", p.config.MaxWorkers).
		Int("queue_size", p.config.QueueSize).
		Msg("scout worker pool started")
}

// Stop gracefully stops the worker pool.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	group := p.group
	p.mu.Unlock()

	p.log.Info().Msg("stopping scout worker pool...")

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer closeCancel()

	if group != nil {
		if err := group.Close(closeCtx); err != nil {
			p.log.Warn().Err(err).Msg("error closing pool")
		}
	}

	p.cancel()

	p.log.Info().
		Int64("processed", atomic.LoadInt64(&p.metrics.JobsProcessed)).
		Int64("failed", atomic.LoadInt64(&p.metrics.JobsFailed)).
		Msg("scout worker pool stopped")
}

// Submit submits a job to the pool. Returns false when the pool is not
// running or the queue is saturated.
func (p *Pool) Submit(msg *Message) bool {
	p.mu.Lock()
	if !p.started || p.group == nil {
		p.mu.Unlock()
		return false
	}
	group := p.group
	p.mu.Unlock()

	if atomic.LoadInt32(&p.metrics.QueueSize) >= int32(p.config.QueueSize) {
		p.log.Warn().
			Str("job_id", msg.ID).
			Str("job_type", msg.Type).
			Msg("job dropped, queue full")
		return false
	}

	group.Submit(msg)
	atomic.AddInt32(&p.metrics.QueueSize, 1)
	return true
}

// Metrics returns a snapshot of the pool counters.
func (p *Pool) Metrics() PoolMetrics {
	return PoolMetrics{
		JobsProcessed: atomic.LoadInt64(&p.metrics.JobsProcessed),
		JobsFailed:    atomic.LoadInt64(&p.metrics.JobsFailed),
		JobsRetried:   atomic.LoadInt64(&p.metrics.JobsRetried),
		QueueSize:     atomic.LoadInt32(&p.metrics.QueueSize),
	}
}

// processJob processes a single job with timeout and retry.
func (p *Pool) processJob(ctx context.Context, msg *Message) error {
	start := time.Now()
	defer atomic.AddInt32(&p.metrics.QueueSize, -1)

	jobCtx, cancel := context.WithTimeout(ctx, p.config.JobTimeout)
	defer cancel()

	err := p.handler.Process(jobCtx, msg)

	elapsed := time.Since(start)

	if err == nil {
		atomic.AddInt64(&p.metrics.JobsProcessed, 1)
		p.log.Debug().
			Str("job_id", msg.ID).
			Str("job_type", msg.Type).
			Dur("elapsed", elapsed).
			Msg("job processed")
		return nil
	}

	p.log.Error().
		Err(err).
		Str("job_id", msg.ID).
		Str("job_type", msg.Type).
		Int("retries", msg.Retries).
		Msg("job processing failed")

	if msg.Retries < p.config.MaxRetries {
		msg.Retries++
		atomic.AddInt64(&p.metrics.JobsRetried, 1)

		// Exponential backoff with jitter to avoid thundering herd
		base := time.Duration(1<<msg.Retries) * time.Second
		jitter := time.Duration(rand.Intn(500)) * time.Millisecond

		time.AfterFunc(base+jitter, func() {
			p.Submit(msg)
		})
		return err
	}

	atomic.AddInt64(&p.metrics.JobsFailed, 1)
	p.log.Warn().
		Str("job_id", msg.ID).
		Str("job_type", msg.Type).
		Msg("job dropped after max retries")
	return err
}
