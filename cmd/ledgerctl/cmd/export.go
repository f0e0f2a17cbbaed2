package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fees-ledger/internal/bootstrap"
	"github.com/noah-isme/sma-fees-ledger/internal/service"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the full ledger snapshot as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSettings(cmd.Context(), func(_ *bootstrap.App, settings *service.SettingsService) error {
			data, err := settings.Export(cliRole)
			if err != nil {
				return err
			}
			if exportOut == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(exportOut, data, 0o644); err != nil {
				return err
			}
			logr.Info("snapshot exported", zap.String("path", exportOut), zap.Int("bytes", len(data)))
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", service.BackupFilename, "output file, - for stdout")
}
