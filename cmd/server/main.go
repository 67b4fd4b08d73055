package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mari/awards-voting/internal/api"
	"github.com/mari/awards-voting/internal/config"
	"github.com/mari/awards-voting/internal/email"
	"github.com/mari/awards-voting/internal/repository/postgres"
	"github.com/mari/awards-voting/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(db)

	var sender email.Sender
	if cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName)
	} else {
		slog.Warn("no RESEND_API_KEY set, emails will be logged instead of sent")
		sender = email.LogSender{}
	}

	services := service.NewServices(repos, sender, cfg)
	router := api.NewRouter(services, repos, cfg)

	// Hourly housekeeping; correctness never depends on it, expired rows
	// are also dropped lazily on access.
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				now := time.Now()
				if err := repos.Credential.DeleteExpired(cleanupCtx, now); err != nil {
					slog.Error("credential cleanup failed", "error", err)
				}
				if err := repos.Session.DeleteExpired(cleanupCtx, now); err != nil {
					slog.Error("session cleanup failed", "error", err)
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	cancelCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
