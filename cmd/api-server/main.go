package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"recipehub/database"
	"recipehub/internal/config"
	"recipehub/internal/microservices/http-api/handler"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/microservices/http-api/service"
	"recipehub/internal/notify"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Setup structured logging
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_error", "error", err)
		os.Exit(1)
	}
	logger.Info("server_stopped_gracefully")
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// Redis is optional; without it rating events are simply not published
	var publisher *notify.RatingPublisher
	if cfg.RedisURL != "" {
		publisher, err = notify.NewRatingPublisher(cfg.RedisURL, cfg.RedisPassword, cfg.RatingEventsChannel)
		if err != nil {
			logger.Warn("redis_unavailable", "error", err)
		} else {
			defer publisher.Close()
			logger.Info("rating_events_enabled", "channel", cfg.RatingEventsChannel)
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	measureRepo := repository.NewNamedRepo[models.Measure](db, "measure")
	categoryRepo := repository.NewNamedRepo[models.RecipeCategory](db, "recipe category")
	ingredientRepo := repository.NewIngredientRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)
	lineRepo := repository.NewRecipeIngredientRepo(db)
	scoreRepo := repository.NewScoreRepository(db)

	// Services
	var notifier service.RatingNotifier
	if publisher != nil {
		notifier = publisher
	}
	authService := service.NewAuthService(userRepo, tokenRepo, cfg)
	scoreService := service.NewScoreService(scoreRepo, notifier, logger, service.ScoreOptions{
		MaxRetries: cfg.RatingMaxRetries,
	})
	userService := service.NewUserService(userRepo, scoreService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.SetRequestTimeout(cfg.RequestTimeout)

	router := handler.NewRouter(handler.RouterConfig{
		Handlers: handler.Handlers{
			Auth:              handler.NewAuthHandler(authService, cfg.AccessTokenTTL),
			Users:             handler.NewUserHandler(userService),
			Measures:          handler.NewNamedHandler(service.NewNamedService[models.Measure](measureRepo, "measure")),
			Categories:        handler.NewNamedHandler(service.NewNamedService[models.RecipeCategory](categoryRepo, "recipe category")),
			Ingredients:       handler.NewIngredientHandler(service.NewIngredientService(ingredientRepo)),
			Recipes:           handler.NewRecipeHandler(service.NewRecipeService(recipeRepo, ingredientRepo, measureRepo, categoryRepo)),
			RecipeIngredients: handler.NewRecipeIngredientHandler(service.NewRecipeIngredientService(lineRepo, recipeRepo, ingredientRepo, measureRepo)),
			Scores:            handler.NewScoreHandler(scoreService),
		},
		Tokens:      authService,
		Limiter:     middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http_server_starting", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("received_shutdown_signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
