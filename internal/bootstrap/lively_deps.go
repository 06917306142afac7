package bootstrap

import (
	"context"
	"os"
	"time"

	"lively_server/adapter/in/worker"
	"lively_server/adapter/out/messaging"
	"lively_server/adapter/out/mongodb"
	"lively_server/config"
	"lively_server/core/agent/llm"
	"lively_server/core/port/in"
	"lively_server/core/port/out"
	"lively_server/core/service/profile"
	"lively_server/core/service/scout"
	"lively_server/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

type Dependencies struct {
	Config *config.Config

	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client

	// Repositories
	ProfileRepo   out.ProfileRepository
	DiscoveryRepo out.DiscoveryRepository

	// Agent
	LLMClient   *llm.Client
	Recommender out.Recommender

	// Scouting. With Redis configured the queue is a stream producer and a
	// separate scout process consumes it; without Redis an in-process pool
	// is started here and Pool is non-nil.
	ScoutQueue out.ScoutQueue
	Pool       *worker.Pool

	// Services
	ProfileService in.ProfileService
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// MongoDB
	mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
	if err != nil {
		return nil, nil, err
	}
	deps.Mongo = mongoClient
	cleanups = append(cleanups, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.WithError(err).Warn("Error disconnecting from MongoDB")
		}
	})

	deps.DB = mongoClient.Database(cfg.MongoDBName)

	profileRepo := mongodb.NewProfileAdapter(deps.DB)
	discoveryRepo := mongodb.NewDiscoveryAdapter(deps.DB)
	deps.ProfileRepo = profileRepo
	deps.DiscoveryRepo = discoveryRepo

	// Indexes are best-effort at startup; the adapters work without them
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer indexCancel()
	if err := profileRepo.EnsureIndexes(indexCtx); err != nil {
		logger.WithError(err).Warn("Failed to ensure profile indexes")
	}
	if err := discoveryRepo.EnsureIndexes(indexCtx); err != nil {
		logger.WithError(err).Warn("Failed to ensure discovery indexes")
	}

	// Redis (optional, enables running the API and scout as separate processes)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		rdb := redis.NewClient(opts)

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			pingCancel()
			cleanup()
			return nil, nil, err
		}
		pingCancel()

		deps.Redis = rdb
		cleanups = append(cleanups, func() {
			if err := rdb.Close(); err != nil {
				logger.WithError(err).Warn("Error closing Redis connection")
			}
		})
		logger.Info("Redis connected")
	}

	// LLM client and recommendation generator
	deps.LLMClient = llm.NewClientWithConfig(llm.ClientConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})
	deps.Recommender = scout.NewGenerator(deps.LLMClient, scout.GeneratorConfig{
		City:    cfg.ScoutCity,
		Timeout: time.Duration(cfg.LLMTimeoutSec) * time.Second,
	})

	// Scout queue
	if cfg.UseRedisQueue() {
		deps.ScoutQueue = messaging.NewRedisProducer(deps.Redis)
		logger.Info("Scout jobs routed through Redis Streams")
	} else {
		zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()

		processor := worker.NewScoutProcessor(deps.Recommender, deps.DiscoveryRepo)
		handler := worker.NewHandler(processor)
		pool := worker.NewPool(handler, scoutPoolConfig(cfg), zlog)
		pool.Start()

		deps.Pool = pool
		deps.ScoutQueue = worker.NewPoolQueue(pool)
		cleanups = append(cleanups, pool.Stop)
		logger.Info("Scout jobs routed through in-process pool")
	}

	deps.ProfileService = profile.NewService(deps.ProfileRepo, deps.DiscoveryRepo, deps.ScoutQueue)

	return deps, cleanup, nil
}

// scoutPoolConfig builds a pool config from the environment, falling back
// to defaults for anything unset.
func scoutPoolConfig(cfg *config.Config) *worker.PoolConfig {
	poolCfg := worker.DefaultPoolConfig()
	if cfg.ScoutMaxWorkers > 0 {
		poolCfg.MaxWorkers = cfg.ScoutMaxWorkers
	}
	if cfg.ScoutQueueSize > 0 {
		poolCfg.QueueSize = cfg.ScoutQueueSize
	}
	if cfg.ScoutJobTimeout > 0 {
		poolCfg.JobTimeout = cfg.ScoutJobTimeout
	}
	if cfg.ScoutMaxRetries > 0 {
		poolCfg.MaxRetries = cfg.ScoutMaxRetries
	}
	return poolCfg
}
