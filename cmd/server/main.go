package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Family progress tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := newServeCommand()
	rootCmd.RunE = serve.RunE
	addServeFlags(rootCmd.Flags())
	rootCmd.AddCommand(serve, newMigrateCommand(), newTokenCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
