package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-fees-ledger/internal/bootstrap"
	"github.com/noah-isme/sma-fees-ledger/internal/service"
)

var clearConfirmed bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty every ledger collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearConfirmed {
			return errors.New("refusing to clear the ledger without --yes")
		}
		return withSettings(cmd.Context(), func(_ *bootstrap.App, settings *service.SettingsService) error {
			if err := settings.Clear(cmd.Context(), cliRole); err != nil {
				return err
			}
			logr.Info("ledger cleared")
			return nil
		})
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearConfirmed, "yes", false, "confirm deleting all data")
}
