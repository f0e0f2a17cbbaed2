package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-fees-ledger/internal/bootstrap"
	"github.com/noah-isme/sma-fees-ledger/internal/service"
)

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Print dashboard totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSettings(cmd.Context(), func(app *bootstrap.App, _ *service.SettingsService) error {
			t := app.Ledger.Totals()
			symbol := app.Config.Ledger.CurrencySymbol
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Students:     %d\n", t.TotalStudents)
			fmt.Fprintf(out, "Classes:      %d\n", t.TotalClasses)
			fmt.Fprintf(out, "Teachers:     %d\n", t.TotalTeachers)
			fmt.Fprintf(out, "Total billed: %s%s\n", symbol, t.TotalBilled.StringFixed(2))
			fmt.Fprintf(out, "Total paid:   %s%s\n", symbol, t.TotalPaid.StringFixed(2))
			fmt.Fprintf(out, "Outstanding:  %s%s\n", symbol, t.Outstanding.StringFixed(2))
			return nil
		})
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <studentId>",
	Short: "Print one student's outstanding balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid student id %q", args[0])
		}
		return withSettings(cmd.Context(), func(app *bootstrap.App, _ *service.SettingsService) error {
			student, ok := app.Ledger.Student(id)
			name := "Unknown"
			if ok {
				name = student.Name
			}
			balance := app.Ledger.StudentBalance(id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s%s\n", name, app.Config.Ledger.CurrencySymbol, balance.StringFixed(2))
			return nil
		})
	},
}
