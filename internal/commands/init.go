package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aoiro-dev/aoiro/internal/config"
)

func newInitCommand(a *app) *cobra.Command {
	var name string
	var year int

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new aoiro project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(absDir, 0o755); err != nil {
				return err
			}

			cfgPath := filepath.Join(absDir, config.DefaultFileName)
			cfg := config.Default(name, year)
			cfg.Database.Path = filepath.Join(absDir, "aoiro.db")
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}

			// Open through the regular path so the schema and chart of
			// accounts land in the new database.
			a.configPath = cfgPath
			if err := a.setup(); err != nil {
				return err
			}
			if err := a.ledger.InitYear(year); err != nil {
				return err
			}

			return emitOK(cmd, map[string]any{
				"directory":   absDir,
				"config":      cfgPath,
				"database":    cfg.Database.Path,
				"fiscal_year": year,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "taxpayer name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().IntVar(&year, "fiscal-year", 2025, "first fiscal year to open")

	return cmd
}
