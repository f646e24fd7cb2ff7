package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigratedCreatesTables(t *testing.T) {
	database, err := OpenMigrated(":memory:")
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{"contact_submissions", "webhook_endpoints"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.db")
	database, err := OpenMigrated(path)
	require.NoError(t, err)
	defer database.Close()

	assert.NoError(t, RunMigrations(database))
}

func TestCasefoldFunction(t *testing.T) {
	database, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var folded, builtin string
	require.NoError(t, database.QueryRow(`SELECT casefold('JOSÉ ÅBERG'), lower('JOSÉ ÅBERG')`).Scan(&folded, &builtin))
	assert.Equal(t, "josé åberg", folded)
	assert.NotEqual(t, folded, builtin)
}
