package bootstrap

import (
	"strings"

	"lively_server/adapter/in/http"
	"lively_server/config"
	"lively_server/infra/middleware"
	"lively_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		StrictRouting:         false,
		CaseSensitive:         false,

		ReadBufferSize:  16384,
		WriteBufferSize: 16384,

		// go-json: faster JSON serialization than encoding/json
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		// Interest payloads are tiny
		BodyLimit: 1 * 1024 * 1024,

		ServerHeader: "",
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// CORS
	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,X-Request-ID",
		ExposeHeaders: "X-Request-ID",
		MaxAge:        86400,
	}))

	// Health checks (outside the API group)
	healthHandler := http.NewHealthHandler(deps.Mongo, deps.Redis)
	healthHandler.Register(app)

	// API routes
	api := app.Group("/api")

	profileHandler := http.NewProfileHandler(deps.ProfileService)
	profileHandler.Register(api)

	logger.Info("API server initialized")

	return app, cleanup, nil
}
