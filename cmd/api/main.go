package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/mealprepai/backend/config"
	"github.com/pageza/mealprepai/backend/internal/database"
	"github.com/pageza/mealprepai/backend/internal/logger"
	"github.com/pageza/mealprepai/backend/internal/rank"
	"github.com/pageza/mealprepai/backend/internal/router"
	"github.com/pageza/mealprepai/backend/internal/server"
	"github.com/pageza/mealprepai/backend/internal/service"
	"github.com/pageza/mealprepai/backend/internal/store"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(config.GetEnvironment())
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var redisClient *redis.Client
	if cfg.RedisConfigured() {
		client, err := database.NewRedisClient(cfg, zlog)
		if err != nil {
			zlog.Warnw("redis unavailable, rate limiting and instruction cache disabled", "error", err)
		} else {
			redisClient = client
		}
	}

	var llm service.LLMServiceInterface
	if cfg.OpenAIAPIKey != "" {
		llmService, err := service.NewLLMService(cfg, redisClient, zlog)
		if err != nil {
			zlog.Fatalw("failed to initialize LLM service", "error", err)
		}
		llm = llmService
	} else {
		zlog.Warnw("OPENAI_API_KEY not set, /ai endpoints disabled")
	}

	var source store.Source
	switch cfg.RecipeSource {
	case store.ModeFile:
		source = store.NewFileSource(cfg.RecipePath)
	case store.ModeS3:
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			zlog.Fatalw("failed to initialize S3 client", "error", err)
		}
		source = store.NewS3Source(s3cfg.Client, s3cfg.Bucket, s3cfg.Key)
	case store.ModeDB:
		db, err := database.New(cfg, zlog)
		if err != nil {
			zlog.Fatalw("failed to connect to database", "error", err)
		}
		source = store.NewDBSource(db)
	case store.ModeAI:
		// Generated mode has no dataset source; suggestions come from the LLM.
	}

	recipes := service.NewRecipeService(
		cfg.RecipeSource,
		source,
		store.NewSuggestionCache(),
		llm,
		rank.Limits{Min: cfg.MinLimit, Max: cfg.MaxLimit, Default: cfg.DefaultLimit},
		zlog,
	)
	email := service.NewEmailService(cfg, zlog)

	engine := router.SetupRouter(cfg, zlog, recipes, llm, email, redisClient)

	srv := server.NewServer(engine, cfg.ServerHost, cfg.ServerPort, zlog)
	zlog.Infow("starting MealPrepAI API",
		"source", cfg.RecipeSource,
		"environment", string(config.GetEnvironment()),
	)
	if err := srv.Start(); err != nil {
		zlog.Fatalw("server error", "error", err)
	}
}
