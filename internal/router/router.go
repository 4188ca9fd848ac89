package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tzavrishon/prep-backend/internal/config"
	"github.com/tzavrishon/prep-backend/internal/handler"
	"github.com/tzavrishon/prep-backend/internal/middleware"
	"github.com/tzavrishon/prep-backend/internal/response"
	"github.com/tzavrishon/prep-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Exam     *handler.ExamHandler
	Practice *handler.PracticeHandler
	Progress *handler.ProgressHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", middleware.HeaderGuestID}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for credential routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Auth group (public, rate limited).
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/guest", handlers.Auth.Guest)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.Me)
	}

	// Exam group (registered users only).
	exams := router.Group("/api/v1/exams")
	exams.Use(middleware.RequireUserJWT(authService))
	{
		exams.POST("/attempts", handlers.Exam.StartAttempt)
		exams.GET("/attempts", handlers.Exam.ListAttempts)
		exams.GET("/attempts/:attempt_id/current", handlers.Exam.GetCurrentSection)
		exams.POST("/attempts/:attempt_id/answers", handlers.Exam.SubmitAnswer)
		exams.POST("/attempts/:attempt_id/sections/finish", handlers.Exam.ConfirmFinishSection)
		exams.POST("/attempts/:attempt_id/finish", handlers.Exam.FinishExam)
	}

	// Practice group (registered users and guests).
	practice := router.Group("/api/v1/practice")
	practice.Use(middleware.ResolveIdentity(authService))
	{
		practice.POST("/sessions", handlers.Practice.StartSession)
		practice.GET("/sessions/:session_id/questions", handlers.Practice.GetQuestions)
		practice.POST("/sessions/:session_id/answers", handlers.Practice.SubmitAnswer)
		practice.POST("/sessions/:session_id/finish", handlers.Practice.FinishSession)
	}

	// Progress group (registered users only).
	progress := router.Group("/api/v1/progress")
	progress.Use(middleware.RequireUserJWT(authService))
	{
		progress.GET("", handlers.Progress.Summary)
	}

	return router
}
