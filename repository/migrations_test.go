package repository

import (
	"testing"

	"fenrir/database"
	"fenrir/repository/testutil"

	"github.com/stretchr/testify/require"
)

// Migrations run at every startup; a second run against an up-to-date
// schema must be a no-op, not an error.
func TestMigrateUpIsIdempotent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	require.NoError(t, database.MigrateUp(testDB.URL))
	require.NoError(t, database.RunMigrationsWithURL(testDB.URL))
	require.NoError(t, database.MigrateStatus(testDB.URL))
}
