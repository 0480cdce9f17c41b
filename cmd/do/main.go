package main

import (
	"os"

	"github.com/otion-app/otion/cmd/do/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "do",
		Short:        "Development and operations tools for otion",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SessionsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
