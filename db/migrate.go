package db

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/litgraph/errors"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// migration is one embedded schema step, identified by its numeric filename prefix.
type migration struct {
	version string
	file    string
	body    string
}

func loadMigrations() ([]migration, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}

	var steps []migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		body, err := migrations.ReadFile(path.Join(migrationsDir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", entry.Name())
		}
		version, _, _ := strings.Cut(entry.Name(), "_")
		steps = append(steps, migration{version: version, file: entry.Name(), body: string(body)})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].version < steps[j].version })
	return steps, nil
}

// Applied returns the recorded migration versions in order.
// A database that has never been migrated has none.
func Applied(db *sql.DB) ([]string, error) {
	var tables int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'`).Scan(&tables)
	if err != nil {
		if IsDatabaseClosed(err) {
			return nil, errors.Wrap(ErrDatabaseClosed, "check migration state")
		}
		return nil, errors.Wrap(err, "check migration state")
	}
	if tables == 0 {
		return nil, nil
	}

	rows, err := db.Query(`SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, errors.Wrap(err, "list applied migrations")
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan migration version")
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// Migrate applies every embedded migration not yet recorded in schema_migrations.
// Each migration runs in its own transaction together with its bookkeeping row.
// A nil logger runs silently.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	steps, err := loadMigrations()
	if err != nil {
		return err
	}
	done, err := Applied(db)
	if err != nil {
		return err
	}
	applied := make(map[string]bool, len(done))
	for _, v := range done {
		applied[v] = true
	}

	count := 0
	for _, step := range steps {
		if applied[step.version] {
			if logger != nil {
				logger.Debugw("Skipping migration (already applied)", "migration", step.file, "version", step.version)
			}
			continue
		}
		if logger != nil {
			logger.Infow("Applying migration", "migration", step.file, "version", step.version)
		}
		if err := apply(db, step); err != nil {
			return err
		}
		count++
	}

	if logger != nil {
		logger.Infow("Migrations complete", "total_migrations", len(steps), "applied", count)
	}
	return nil
}

func apply(db *sql.DB, step migration) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", step.file)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(step.body); err != nil {
		return errors.Wrapf(err, "execute %s", step.file)
	}
	// 000 creates schema_migrations, so it can record itself too
	if _, err = tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, step.version); err != nil {
		return errors.Wrapf(err, "record %s", step.file)
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit %s", step.file)
	}
	return nil
}
