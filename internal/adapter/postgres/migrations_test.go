package postgres

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
)

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := migrationNames(migrationFiles)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_schema.sql", "002_seed.sql"}, names)
}

func TestRunMigrationsAppliesEachFileOnce(t *testing.T) {
	db := newFakeDB()
	ctx := context.Background()
	lgr := logger.NewWithWriter("test", io.Discard, "error")

	require.NoError(t, RunMigrations(ctx, db, lgr))
	assert.Equal(t, []string{"001_schema.sql", "002_seed.sql"}, db.migrations)
	assert.Equal(t, 2, db.commits)

	require.NoError(t, RunMigrations(ctx, db, lgr))
	assert.Equal(t, 2, db.commits, "already applied migrations must be skipped")
	assert.Equal(t, 2, db.executed("INSERT INTO schema_migrations"))
}
