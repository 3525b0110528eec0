package storage

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb"
	"github.com/teranos/litgraph/kb/types"
)

// SQLFactStore implements kb.FactStore for the predication schema
type SQLFactStore struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// NewSQLFactStore creates a fact store; a nil logger is silent
func NewSQLFactStore(db *sql.DB, log *zap.SugaredLogger) *SQLFactStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SQLFactStore{db: db, log: log}
}

var _ kb.FactStore = (*SQLFactStore)(nil)

// Execute runs the request and returns one row per match of every slot
func (s *SQLFactStore) Execute(ctx context.Context, req *types.Request) ([]types.RawRow, error) {
	query, args, err := buildFactQuery(req)
	if err != nil {
		return nil, err
	}

	s.log.Debugw("Executing fact query",
		"slots", req.Slots,
		"filters", len(req.Filters),
		"joins", len(req.Joins),
		"limit", req.Limit,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		err = errors.Wrap(err, "failed to execute fact query")
		err = errors.WithDetail(err, fmt.Sprintf("Collection: %s", req.Collection))
		err = errors.WithDetail(err, fmt.Sprintf("Slots: %d", req.Slots))
		err = errors.WithDetail(err, "Operation: Execute")
		return nil, err
	}
	defer rows.Close()

	var out []types.RawRow
	for rows.Next() {
		row, err := scanRawRow(rows, req.Slots)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan fact row")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate fact rows")
	}
	return out, nil
}

func scanRawRow(rows *sql.Rows, slots int) (types.RawRow, error) {
	row := types.RawRow{Slots: make([]types.SlotValues, slots)}
	dest := []interface{}{
		&row.DocumentID,
		&row.Title,
		&row.Authors,
		&row.Journals,
		&row.PublicationYear,
		&row.PublicationMonth,
	}
	for i := range row.Slots {
		sv := &row.Slots[i]
		dest = append(dest,
			&sv.RowID,
			&sv.SubjectID,
			&sv.SubjectStr,
			&sv.SubjectType,
			&sv.PredicateCanonical,
			&sv.Predicate,
			&sv.ObjectID,
			&sv.ObjectStr,
			&sv.ObjectType,
			&sv.Confidence,
			&sv.SentenceID,
			&sv.Sentence,
		)
	}
	err := rows.Scan(dest...)
	return row, err
}
