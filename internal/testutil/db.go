// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"infinite-experiment/calllist/internal/db"
)

// SetupTestDB returns a migrated in-memory SQLite store and a sqlx handle on
// the same connection.
func SetupTestDB(t *testing.T) (*gorm.DB, *sqlx.DB) {
	t.Helper()
	orm, err := db.InitORM("sqlite", ":memory:")
	require.NoError(t, err, "failed to open test database")

	read, err := db.ReadDB(orm, "sqlite", ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := orm.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return orm, read
}
