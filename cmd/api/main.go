package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csmith/envflag/v2"
	"github.com/csmith/slogflags"

	"github.com/toniu/playscore/internal/adapters/rest"
	"github.com/toniu/playscore/internal/adapters/spotify"
	"github.com/toniu/playscore/internal/adapters/sqlite"
	"github.com/toniu/playscore/internal/config"
	"github.com/toniu/playscore/internal/core/recommend"
	"github.com/toniu/playscore/internal/core/scoring"
	"github.com/toniu/playscore/internal/core/services"
	"github.com/toniu/playscore/internal/worker"
)

var configPath = flag.String("config", "", "Optional path to a YAML config file")

func main() {
	envflag.Parse()
	_ = slogflags.Logger(slogflags.WithSetDefault(true))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		slog.Error("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
		os.Exit(1)
	}

	repo, err := sqlite.NewAdapter(cfg.StoragePath)
	if err != nil {
		slog.Error("Failed to initialize database", "path", cfg.StoragePath, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	catalog := spotify.NewClient(context.Background(),
		cfg.Spotify.ClientID, cfg.Spotify.ClientSecret,
		cfg.Spotify.TokenURL, cfg.Spotify.BaseURL)

	scorer, err := scoring.NewEngine(cfg.Scoring.Engine())
	if err != nil {
		slog.Error("Invalid scoring configuration", "error", err)
		os.Exit(1)
	}
	recommender := recommend.NewEngine(cfg.Recommend.Engine(), scorer.Config())

	svc := services.NewAnalyzer(catalog, repo, scorer, recommender, cfg.Recommend.CandidatePoolSize)

	pool := worker.NewPool(svc, cfg.QueueSize, 0)
	pool.Start(cfg.Workers)
	defer pool.Stop()

	handler := rest.NewHandler(svc, pool)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	slog.Info("playscore API listening", "addr", cfg.HTTPAddr)

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Shutdown error", "error", err)
		}
	}
}
