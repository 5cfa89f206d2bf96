package main

import (
	"os"

	"github.com/aoiro-dev/aoiro/internal/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		commands.WriteError(os.Stdout, err)
		os.Exit(commands.ExitCode(err))
	}
}
