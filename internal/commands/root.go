// Package commands wires the aoiro CLI: every ledger, fact and tax
// operation as a cobra subcommand with JSON output on stdout.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aoiro-dev/aoiro/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "aoiro",
		Short:   "Blue-return bookkeeping and tax filing for sole proprietors",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to aoiro.yaml (default ./aoiro.yaml, AOIRO_CONFIG)")
	pf.StringVar(&a.dbPath, "db", "", "path to the database file (overrides config, AOIRO_DB)")
	pf.IntVar(&a.year, "year", 0, "fiscal year (default from config)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(
		newInitCommand(a),
		newYearCommand(a),
		newJournalCommand(a),
		newReportCommand(a),
		newTaxCommand(a),
		newAssetCommand(a),
		newFactCommand(a),
		newImportCommand(a),
	)

	return rootCmd
}
