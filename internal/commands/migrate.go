package commands

import (
	"github.com/spf13/cobra"

	"github.com/exercisetracker/exercise-tracker/internal/app"
	"github.com/exercisetracker/exercise-tracker/internal/pkg/config"
)

// NewMigrateCommand creates the 'migrate' subcommand that prepares the store.
// Usage: exercise-tracker migrate
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the store schema and indexes",
		Long: `Create the SQLite tables or the MongoDB indexes for the configured
STORE_DRIVER, then exit. Safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := newLogger(cfg)

			if err := app.Migrate(cmd.Context(), cfg, log); err != nil {
				return err
			}
			log.Info().Str("store", cfg.StoreDriver).Msg("migration complete")
			return nil
		},
	}
}
