package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exercisetracker/exercise-tracker/pkg/logger"
)

func TestNewServeCommand_Flags(t *testing.T) {
	cmd := NewServeCommand()
	require.Equal(t, "serve", cmd.Use)

	flag := cmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	require.Equal(t, "p", flag.Shorthand)
}

func TestMigrateCommand_SQLite(t *testing.T) {
	logger.Reset()
	t.Cleanup(logger.Reset)

	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "tracker.db"))
	t.Setenv("LOG_LEVEL", "off")

	cmd := NewMigrateCommand()
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
}
