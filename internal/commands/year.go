package commands

import (
	"github.com/spf13/cobra"
)

func newYearCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "year",
		Short: "Manage fiscal years",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Open the fiscal year for posting",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.setup(); err != nil {
					return err
				}
				year := a.fiscalYear()
				if err := a.ledger.InitYear(year); err != nil {
					return err
				}
				return emitOK(cmd, map[string]any{"fiscal_year": year})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the fiscal year status",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.setup(); err != nil {
					return err
				}
				year := a.fiscalYear()
				status, err := a.ledger.YearStatus(year)
				if err != nil {
					return err
				}
				return emitOK(cmd, map[string]any{"fiscal_year": year, "year_status": status})
			},
		},
		&cobra.Command{
			Use:   "close",
			Short: "Close the fiscal year (one-way; blocks further mutation)",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.setup(); err != nil {
					return err
				}
				year := a.fiscalYear()
				if err := a.ledger.CloseYear(year); err != nil {
					return err
				}
				return emitOK(cmd, map[string]any{"fiscal_year": year, "year_status": "closed"})
			},
		},
	)

	return cmd
}
