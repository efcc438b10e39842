package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizshare/quizshare-backend/internal/config"
	"github.com/quizshare/quizshare-backend/internal/handler"
	"github.com/quizshare/quizshare-backend/internal/middleware"
	"github.com/quizshare/quizshare-backend/internal/response"
	"github.com/quizshare/quizshare-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth   *handler.AuthHandler
	Test   *handler.TestHandler
	Result *handler.ResultHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// Paths are a published contract: clients hard-code them.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for credential endpoints (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Test Group (Bearer) ────────────────────────────────────────
	tests := router.Group("/tests")
	tests.Use(middleware.RequireAuth(authService))
	{
		tests.POST("", handlers.Test.CreateTest)
		tests.GET("", handlers.Test.ListTests)
		tests.GET("/:slug", handlers.Test.GetTestBySlug)
	}

	// ─── 3. Result Group (Bearer) ──────────────────────────────────────
	results := router.Group("/results")
	results.Use(middleware.RequireAuth(authService))
	{
		results.POST("/:test_id/submit", handlers.Result.Submit)
		results.GET("/:test_id/results", handlers.Result.ListMyResults)
		results.GET("/:test_id/results/all", handlers.Result.ListAllResults)
	}

	return router
}
