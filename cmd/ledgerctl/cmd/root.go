// Package cmd provides the ledgerctl commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/sma-fees-ledger/internal/bootstrap"
	"github.com/noah-isme/sma-fees-ledger/internal/models"
	"github.com/noah-isme/sma-fees-ledger/internal/service"
	"github.com/noah-isme/sma-fees-ledger/pkg/config"
)

var (
	cfgFile   string
	debug     bool
	useMirror bool

	logr *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Maintain the school fees ledger from the command line",
	Long: `ledgerctl opens the configured snapshot store directly and runs
maintenance tasks against it without starting the HTTP API.

Example:
  ledgerctl export --out backup.json
  ledgerctl import backup.json
  ledgerctl totals
  ledgerctl balance 1759812345678901248`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zapcore.InfoLevel
		if debug {
			level = zapcore.DebugLevel
		}
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		zapCfg.Encoding = "console"
		l, err := zapCfg.Build()
		if err != nil {
			return err
		}
		logr = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logr != nil {
			_ = logr.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".env", "env file to read configuration from")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&useMirror, "mirror", false, "push changes to the remote mirror when it is configured")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(balanceCmd)
}

// withSettings opens the ledger, hands an admin-scoped settings service to fn and closes everything.
func withSettings(ctx context.Context, fn func(app *bootstrap.App, settings *service.SettingsService) error) error {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app, err := bootstrap.New(ctx, cfg, logr, bootstrap.Options{DisableMirror: !useMirror})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logr.Warn("failed to close ledger resources", zap.Error(cerr))
		}
	}()
	return fn(app, service.NewSettingsService(app.Ledger, app.Mirror, logr.Named("settings")))
}

const cliRole = models.RoleAdmin
