package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/mealprepai/backend/config"
	"github.com/pageza/mealprepai/backend/internal/api"
	"github.com/pageza/mealprepai/backend/internal/middleware"
	"github.com/pageza/mealprepai/backend/internal/service"
)

// SetupRouter configures the middleware chain and the application routes.
// The Redis client may be nil; rate limiting is then left off. A nil llm
// leaves the /ai endpoints unmounted. Auth guards the POST endpoints only
// when a JWT secret is configured.
func SetupRouter(
	cfg *config.Config,
	logger *zap.SugaredLogger,
	recipes service.IRecipeService,
	llm service.LLMServiceInterface,
	email service.IEmailService,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORSOrigins),
	)

	router.GET("/", api.HealthCheck)
	router.GET("/health", api.HealthCheck)

	root := router.Group("")
	if cfg.AuthEnabled() {
		root.Use(middleware.RequireAuth(service.NewAuthService(cfg.JWTSecret)))
	}

	var aiLimiter *middleware.RateLimiter
	if redisClient != nil {
		aiLimiter = middleware.NewAIRateLimiter(redisClient)
	}

	api.NewRecipeHandler(recipes, logger).RegisterRoutes(root)
	api.NewEmailHandler(email, logger).RegisterRoutes(root)
	if llm != nil {
		api.NewLLMHandler(llm, aiLimiter, logger).RegisterRoutes(root)
	}

	return router
}
