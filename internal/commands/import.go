package commands

import (
	"github.com/spf13/cobra"
)

func newImportCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Parse a bank statement into candidate journal rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			result, err := a.importService().ImportFile(a.fiscalYear(), args[0], format)
			if err != nil {
				return err
			}
			return emitOK(cmd, result)
		},
	}

	cmd.Flags().StringVar(&format, "format", "bank", "statement format parser")

	return cmd
}
