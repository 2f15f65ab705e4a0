package cli

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/location-weather/internal/api/http"
	"github.com/i474232898/location-weather/internal/config"
	"github.com/i474232898/location-weather/internal/lookup"
	"github.com/i474232898/location-weather/internal/scheduler"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the lookup state over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.AppConfig) error {
	if parent == nil {
		parent = context.Background()
	}

	orch := newOrchestrator(cfg, lookup.WithObserver(func(s lookup.Snapshot) {
		log.Printf("DEBUG: state %s (run %s, loading=%t)", s.Status, s.RunID, s.Loading)
	}))

	sched := scheduler.New(cfg.RefreshInterval, cfg.HTTPTimeout*3, orch)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "location-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Synchronous fetches wait for up to three upstream calls.
		WriteTimeout: cfg.HTTPTimeout*3 + 5*time.Second,
		ErrorHandler: httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, orch)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}
