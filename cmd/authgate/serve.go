package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/omarluq/authgate/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the authgate API server",
	Long: `Start the HTTP API behind the configured authentication strategy.
The config file is watched and reloaded without a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, resolveConfigPath())
}

// serve runs the server until ctx is canceled, then shuts the container down.
func serve(ctx context.Context, configPath string) error {
	container, err := di.NewContainer(configPath)
	if err != nil {
		return err
	}

	loggerSvc, err := di.Invoke[*di.LoggerService](container)
	if err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("failed to initialize")
		_ = container.Shutdown()
		return err
	}
	log.Logger = *loggerSvc.Logger
	zerolog.DefaultContextLogger = loggerSvc.Logger

	srvSvc, err := di.Invoke[*di.ServerService](container)
	if err != nil {
		log.Error().Err(err).Msg("failed to create server")
		_ = container.Shutdown()
		return err
	}

	cfgSvc := di.MustInvoke[*di.ConfigService](container)
	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	cfgSvc.StartWatching(watchCtx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("listen", srvSvc.Server.Addr()).
			Str("auth", cfgSvc.Get().Auth.Type).
			Msg("starting authgate")
		errCh <- srvSvc.Server.ListenAndServe()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
		if serveErr != nil {
			log.Error().Err(serveErr).Msg("server error")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), di.ShutdownTimeout)
	defer cancel()
	if err := container.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		if serveErr == nil {
			serveErr = err
		}
	}

	log.Info().Msg("server stopped")
	return serveErr
}
