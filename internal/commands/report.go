package commands

import (
	"github.com/spf13/cobra"
)

func newReportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial statements from the ledger",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "trial-balance",
			Short: "Per-account debit and credit totals",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.setup(); err != nil {
					return err
				}
				tb, err := a.ledger.TrialBalance(a.fiscalYear())
				if err != nil {
					return err
				}
				return emitOK(cmd, tb)
			},
		},
		&cobra.Command{
			Use:   "pl",
			Short: "Profit and loss statement",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.setup(); err != nil {
					return err
				}
				pl, err := a.ledger.ProfitAndLoss(a.fiscalYear())
				if err != nil {
					return err
				}
				return emitOK(cmd, pl)
			},
		},
		&cobra.Command{
			Use:   "bs",
			Short: "Balance sheet",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.setup(); err != nil {
					return err
				}
				bs, err := a.ledger.BalanceSheet(a.fiscalYear())
				if err != nil {
					return err
				}
				return emitOK(cmd, bs)
			},
		},
	)

	return cmd
}
