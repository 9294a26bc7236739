package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flightdeck/internal/common/config"
	"flightdeck/internal/common/database"
	"flightdeck/internal/server"
	"flightdeck/internal/session"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address (overrides server.address)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	a := newApp(cfg, cfg.Logging.Format, cfg.Logging.Output)
	defer a.close()

	a.zapLog.Info("Starting flightdeck...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("apiBaseURL", cfg.API.BaseURL),
	)

	ttl := config.GetDuration(cfg.Server.SessionTTL)

	var store session.Store
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		redis := database.NewRedis(cfg.Database.Redis)
		defer redis.Close()

		err := retryWithBackoff(func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			return redis.Ping(pingCtx)
		}, 5, time.Second, a.zapLog, "Redis connection")
		if err != nil {
			return err
		}
		a.zapLog.Info("Redis connected successfully", zap.String("address", cfg.Database.Redis.Address))
		store = session.NewRedisStore(redis, cfg.Session.KeyPrefix, ttl)
	default:
		store = session.NewMemoryStore(ttl)
	}

	manager := session.NewManager(store, a.newController, ttl, a.log)
	srv := server.New(cfg.Server, manager, a.log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		a.zapLog.Error("http server failed", zap.Error(err))
		return err
	}

	a.zapLog.Info("flightdeck stopped gracefully")
	return nil
}
