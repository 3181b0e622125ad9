package db

import (
	"path/filepath"
	"testing"

	"finance_tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestMigrate_CreatesTables(t *testing.T) {
	gdb, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "finance.db"))
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, Migrate(gdb))
	// Running twice is a no-op
	require.NoError(t, Migrate(gdb))

	for _, model := range []any{&domain.User{}, &domain.Location{}, &domain.Transaction{}} {
		assert.True(t, gdb.Migrator().HasTable(model))
	}
	assert.True(t, gdb.Migrator().HasIndex(&domain.User{}, "Email"))
	assert.True(t, gdb.Migrator().HasIndex(&domain.Location{}, "Name"))
}
