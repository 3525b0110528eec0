package db

import (
	"context"
	"database/sql"

	"github.com/teranos/litgraph/errors"
)

// TableStat is the row count of one knowledge-base table
type TableStat struct {
	Table string `json:"table" yaml:"table"`
	Rows  int64  `json:"rows" yaml:"rows"`
}

// StatTables lists the tables reported by Stats, in display order
var StatTables = []string{
	"document",
	"sentence",
	"predication",
	"mesh_tree",
	"entity_name",
	"result_cache",
}

// Stats counts the rows of every knowledge-base table
func Stats(ctx context.Context, db *sql.DB) ([]TableStat, error) {
	stats := make([]TableStat, 0, len(StatTables))
	for _, table := range StatTables {
		var rows int64
		// Table names come from the fixed StatTables list
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&rows); err != nil {
			err = errors.Wrapf(err, "failed to count rows in %s", table)
			return nil, errors.WithDetail(err, "Operation: Stats")
		}
		stats = append(stats, TableStat{Table: table, Rows: rows})
	}
	return stats, nil
}
