// @title           Exercise Tracker API
// @version         1.0
// @description     Register users, record exercises and query exercise logs.
// @BasePath        /
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/exercisetracker/exercise-tracker/internal/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "exercise-tracker",
		Short: "Exercise tracker HTTP API",
		Long: `Exercise tracker lets clients register users, record exercise entries
and read back each user's log filtered by date range and limit.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
