// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"testing"

	"finance_tracker/internal/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns an in-memory SQLite database with every table migrated.
// The pool is pinned to one connection because each SQLite memory
// connection is its own database.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	gdb.Logger = logger.Default.LogMode(logger.Silent)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}
