package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/joho/godotenv"

	"github.com/tendant/social-content/pkg/socialcontent"
	"github.com/tendant/social-content/pkg/socialcontent/api"
	"github.com/tendant/social-content/pkg/socialcontent/cache"
	"github.com/tendant/social-content/pkg/socialcontent/config"
)

func main() {
	// .env is optional, real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, err := cfg.BuildRepository(ctx)
	if err != nil {
		slog.Error("Failed to build repository", "err", err)
		os.Exit(1)
	}

	svc, err := socialcontent.New(
		socialcontent.WithRepository(repo),
		socialcontent.WithEventSink(socialcontent.NewLoggingEventSink(slog.Default())),
	)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	authSvc := socialcontent.NewAuthService(repo)
	userSvc := socialcontent.NewUserService(repo)

	var hashtagSvc socialcontent.HashtagService = socialcontent.NewHashtagService(repo)
	redisClient, err := cfg.BuildRedisClient(ctx)
	if err != nil {
		slog.Error("Failed to connect redis", "err", err)
		os.Exit(1)
	}
	if redisClient != nil {
		hashtagSvc = cache.NewHashtagCache(hashtagSvc, redisClient, cfg.Redis.TTL, slog.Default())
	}

	tokens := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil)
	issuer := api.NewTokenIssuer(tokens, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	router := api.NewRouter(
		api.NewAuthHandler(authSvc, issuer),
		api.NewContentHandler(svc, userSvc),
		api.NewUserHandler(userSvc),
		api.NewHashtagHandler(hashtagSvc),
		tokens,
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router.Handler(),
	}

	go func() {
		slog.Info("Social content server starting",
			"port", cfg.Port,
			"env", cfg.Environment,
			"database", cfg.DB.Type)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}
