package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestOpenWithMigrations(t *testing.T) {
	t.Run("successfully opens database and runs migrations", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := OpenWithMigrations(dbPath, nil)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		for _, table := range append([]string{"schema_migrations"}, StatTables...) {
			var exists int
			err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&exists)
			require.NoError(t, err)
			assert.Equal(t, 1, exists, "table %s should exist after migrations", table)
		}
	})

	t.Run("open errors include stack traces", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		firstDB, err := Open(dbPath, nil)
		require.NoError(t, err)
		firstDB.Close()

		// Make directory read-only so WAL mode will fail
		require.NoError(t, os.Chmod(tmpDir, 0555))
		defer os.Chmod(tmpDir, 0755)

		if os.Geteuid() == 0 {
			t.Skip("root ignores directory permissions")
		}

		db, err := OpenWithMigrations(dbPath, nil)
		require.Error(t, err)
		assert.Nil(t, db)

		detailed := fmt.Sprintf("%+v", err)
		assert.Contains(t, detailed, "connection.go", "stack should reference source file")
	})
}

func TestMigrate(t *testing.T) {
	t.Run("records every migration", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, Migrate(db, nil))

		entries, err := migrations.ReadDir("sqlite/migrations")
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
		assert.Equal(t, len(entries), count)
	})

	t.Run("is idempotent", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		core, logs := observer.New(zap.DebugLevel)
		logger := zap.New(core).Sugar()

		require.NoError(t, Migrate(db, logger))
		require.NoError(t, Migrate(db, logger), "running migrations multiple times should be safe")

		assert.NotZero(t, logs.FilterMessage("Skipping migration (already applied)").Len())
	})

	t.Run("closed database fails", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		db.Close()

		err = Migrate(db, nil)
		require.Error(t, err)
		assert.True(t, IsDatabaseClosed(err))
	})
}

func TestApplied(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "applied.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	versions, err := Applied(db)
	require.NoError(t, err)
	assert.Empty(t, versions)

	require.NoError(t, Migrate(db, nil))
	versions, err = Applied(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"000", "001", "002", "003", "004"}, versions)
}

func TestStats(t *testing.T) {
	db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "stats.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO document (id, collection, title) VALUES (10, 'PubMed', 'Metformin in diabetes')`)
	require.NoError(t, err)

	stats, err := Stats(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, stats, len(StatTables))
	assert.Equal(t, TableStat{Table: "document", Rows: 1}, stats[0])
	assert.Equal(t, int64(0), stats[2].Rows)
}
