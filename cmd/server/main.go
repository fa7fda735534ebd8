package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/madax098/andrios12/internal/app"
	"github.com/madax098/andrios12/internal/config"
	"github.com/madax098/andrios12/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
	)

	cmd := &cobra.Command{
		Use:           "andrios12-server",
		Short:         "Ephemeral PIN-gated chat relay server",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, overrides)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&overrides.Addr, "addr", "", "HTTP listen address")
	cmd.Flags().StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&overrides.StaticDir, "static", "", "directory with the browser UI")
	cmd.Flags().DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")

	return cmd
}

func run(configPath string, overrides config.Config) error {
	logger := log.New(os.Stdout, overrides.LogLevel)

	cfg, path, err := config.Load(logger, configPath)
	if err != nil {
		return err
	}
	cfg.UpdateFrom(overrides)

	// Rebuild with the resolved level in case the config file set it.
	logger = log.New(os.Stdout, cfg.LogLevel)
	logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting andrios12 server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger)
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
