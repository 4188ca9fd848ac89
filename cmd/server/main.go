package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tzavrishon/prep-backend/internal/cache"
	"github.com/tzavrishon/prep-backend/internal/config"
	"github.com/tzavrishon/prep-backend/internal/database"
	"github.com/tzavrishon/prep-backend/internal/handler"
	"github.com/tzavrishon/prep-backend/internal/logger"
	"github.com/tzavrishon/prep-backend/internal/ratelimit"
	"github.com/tzavrishon/prep-backend/internal/repository"
	"github.com/tzavrishon/prep-backend/internal/router"
	"github.com/tzavrishon/prep-backend/internal/sampler"
	"github.com/tzavrishon/prep-backend/internal/service"
	"github.com/tzavrishon/prep-backend/internal/validator"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Tzav Rishon Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories.
	userRepo := repository.NewUserRepository(pool)
	guestRepo := repository.NewGuestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	practiceRepo := repository.NewPracticeRepository(pool)

	// Shared components.
	smp := sampler.New(questionRepo)
	guestLimiter := ratelimit.NewGuestLimiter(practiceRepo, cfg.GuestPracticeLimitPerType)
	recency := cache.NewRecency(rdb)

	// Services.
	authService := service.NewAuthService(userRepo, guestRepo, cfg)
	examService := service.NewExamService(examRepo, questionRepo, smp, cfg, log)
	practiceService := service.NewPracticeService(practiceRepo, guestRepo, questionRepo, smp, guestLimiter, recency, cfg, log)
	progressService := service.NewProgressService(examRepo, practiceRepo)

	// Handlers.
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Exam:     handler.NewExamHandler(examService),
		Practice: handler.NewPracticeHandler(practiceService),
		Progress: handler.NewProgressHandler(progressService),
	}

	r := router.SetupRouter(authService, handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
