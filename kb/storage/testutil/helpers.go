// Package testutil provides fixtures for tests that need a populated fact store.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/teranos/litgraph/db"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// Uses real migrations to ensure test schema matches production schema.
func SetupTestDB(t *testing.T) *sql.DB {
	testDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	testDB.SetMaxOpenConns(1)

	err = db.Migrate(testDB, nil)
	require.NoError(t, err, "Failed to run migrations")

	t.Cleanup(func() { testDB.Close() })
	return testDB
}

// SetupEmptyDB creates an in-memory SQLite database without any tables.
// Used for testing error handling when schema is missing
func SetupEmptyDB(t *testing.T) *sql.DB {
	testDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	testDB.SetMaxOpenConns(1)
	t.Cleanup(func() { testDB.Close() })
	return testDB
}
