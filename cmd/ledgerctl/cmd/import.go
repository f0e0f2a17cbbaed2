package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fees-ledger/internal/bootstrap"
	"github.com/noah-isme/sma-fees-ledger/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the collections present in a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return withSettings(cmd.Context(), func(_ *bootstrap.App, settings *service.SettingsService) error {
			keys, err := settings.Import(cmd.Context(), cliRole, data)
			if err != nil {
				return err
			}
			logr.Info("snapshot imported", zap.String("file", args[0]), zap.Strings("collections", keys))
			return nil
		})
	},
}
