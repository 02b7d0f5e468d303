package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sucrestore/internal/models"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), DriverSQLite, "")
	require.Error(t, err)

	_, err = Open(context.Background(), "mysql", "x")
	require.ErrorContains(t, err, "unknown DB_DRIVER")
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gdb, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(ctx, gdb))

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}
}
