package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/config"
	"github.com/folio-labs/portfolio-backend/internal/logging"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "worker",
		Short:        "Maintenance jobs for the portfolio database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newCompactCmd(a),
		newScheduleCmd(a),
	)
	return root
}
