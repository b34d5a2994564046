// Package commands implements the exercise-tracker CLI subcommands.
package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/exercisetracker/exercise-tracker/internal/app"
	"github.com/exercisetracker/exercise-tracker/internal/pkg/config"
	"github.com/exercisetracker/exercise-tracker/pkg/logger"
)

const serviceName = "exercise-tracker"

// NewServeCommand creates the 'serve' subcommand that runs the HTTP API.
// Usage: exercise-tracker serve [--port 3000]
func NewServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the exercise tracker HTTP API",
		Long: `Start the HTTP API. Configuration is read from the environment
(PORT, STORE_DRIVER, MONGO_URI, SQLITE_PATH, REDIS_ADDR, ...).

Example:
  STORE_DRIVER=sqlite SQLITE_PATH=tracker.db exercise-tracker serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg, newLogger(cfg))
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
}

func runServe(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: application.Router(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("store", cfg.StoreDriver).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			_ = application.Close(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	return application.Close(shutdownCtx)
}
