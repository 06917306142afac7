package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// generateScoutID creates a unique scout consumer ID using hostname and PID
func generateScoutID() string {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "scout"
	}
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}

type Config struct {
	Port        string
	Environment string

	// Database
	MongoDBURL  string
	MongoDBName string
	RedisURL    string

	// OpenAI
	OpenAIAPIKey   string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeoutSec  int

	// Scouting
	ScoutCity string

	// Scout worker
	ScoutID         string
	ScoutMaxWorkers int
	ScoutQueueSize  int
	ScoutJobTimeout time.Duration
	ScoutMaxRetries int

	// Consumer (Redis Stream)
	ConsumerGroup           string
	ConsumerPendingCheckSec int
	ConsumerPendingIdleSec  int

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("ENV", "development"),

		// Database
		MongoDBURL:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGODB_DATABASE", "lively_app"),
		RedisURL:    getEnv("REDIS_URL", ""),

		// OpenAI
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 512),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
		LLMTimeoutSec:  getEnvInt("LLM_TIMEOUT_SEC", 60),

		// Scouting
		ScoutCity: getEnv("SCOUT_CITY", "London, United Kingdom"),

		// Scout worker
		ScoutID:         getEnv("SCOUT_ID", generateScoutID()),
		ScoutMaxWorkers: getEnvInt("SCOUT_MAX_WORKERS", 8),
		ScoutQueueSize:  getEnvInt("SCOUT_QUEUE_SIZE", 256),
		ScoutJobTimeout: time.Duration(getEnvInt("SCOUT_JOB_TIMEOUT_SEC", 90)) * time.Second,
		ScoutMaxRetries: getEnvInt("SCOUT_MAX_RETRIES", 3),

		// Consumer
		ConsumerGroup:           getEnv("CONSUMER_GROUP", "scout-workers"),
		ConsumerPendingCheckSec: getEnvInt("CONSUMER_PENDING_CHECK_SEC", 30),
		ConsumerPendingIdleSec:  getEnvInt("CONSUMER_PENDING_IDLE_SEC", 120),

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8081"}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UseRedisQueue reports whether scout jobs should go through Redis Streams.
func (c *Config) UseRedisQueue() bool {
	return c.RedisURL != ""
}
