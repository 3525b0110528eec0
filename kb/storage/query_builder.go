package storage

import (
	"fmt"
	"strings"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb/types"
)

// slotColumns are the predication columns selected for every slot, in scan order
var slotColumns = []string{
	"id",
	"subject_id",
	"subject_str",
	"subject_type",
	"predicate_canonicalized",
	"predicate",
	"object_id",
	"object_str",
	"object_type",
	"confidence",
	"sentence_id",
}

// documentColumns are the document metadata columns, in scan order
var documentColumns = []string{
	"COALESCE(d.title, '')",
	"COALESCE(d.authors, '')",
	"COALESCE(d.journals, '')",
	"COALESCE(d.publication_year, 0)",
	"COALESCE(d.publication_month, 0)",
}

// queryBuilder accumulates SQL WHERE clauses and parameters for fact requests
type queryBuilder struct {
	whereClauses []string
	args         []interface{}
}

// addClause appends a WHERE clause with its arguments
func (qb *queryBuilder) addClause(clause string, args ...interface{}) {
	qb.whereClauses = append(qb.whereClauses, clause)
	qb.args = append(qb.args, args...)
}

// build returns the WHERE clauses joined with AND
func (qb *queryBuilder) build() string {
	return strings.Join(qb.whereClauses, " AND ")
}

var allowedColumns = func() map[types.Column]bool {
	m := make(map[types.Column]bool, len(types.Columns))
	for _, c := range types.Columns {
		m[c] = true
	}
	return m
}()

func slotAlias(slot int) string {
	return fmt.Sprintf("p%d", slot)
}

func sentenceAlias(slot int) string {
	return fmt.Sprintf("s%d", slot)
}

// columnRef renders a qualified column after checking it against the whitelist
func columnRef(req *types.Request, slot int, column types.Column) (string, error) {
	if slot < 0 || slot >= req.Slots {
		return "", errors.NewInvalidRequestError("slot %d out of range [0, %d)", slot, req.Slots)
	}
	if !allowedColumns[column] {
		return "", errors.NewInvalidRequestError("column %q cannot be referenced", column)
	}
	return slotAlias(slot) + "." + string(column), nil
}

// buildFactQuery renders a request into a single SELECT over the predication
// table joined to itself once per slot. Rows are ordered by descending
// document id and then by the slot row ids so truncation is deterministic.
func buildFactQuery(req *types.Request) (string, []interface{}, error) {
	if req == nil || req.Slots <= 0 {
		return "", nil, errors.NewInvalidRequestError("request needs at least one slot")
	}
	if req.Collection == "" {
		return "", nil, errors.NewInvalidRequestError("request needs a collection")
	}
	if req.Limit < 0 {
		return "", nil, errors.NewInvalidRequestError("negative limit %d", req.Limit)
	}

	qb := &queryBuilder{}
	for slot := 0; slot < req.Slots; slot++ {
		qb.addClause(slotAlias(slot)+".document_collection = ?", req.Collection)
	}
	for _, f := range req.Filters {
		ref, err := columnRef(req, f.Slot, f.Column)
		if err != nil {
			return "", nil, err
		}
		qb.addClause(ref+" = ?", f.Value)
	}
	for _, j := range req.Joins {
		left, err := columnRef(req, j.Left.Slot, j.Left.Column)
		if err != nil {
			return "", nil, err
		}
		right, err := columnRef(req, j.Right.Slot, j.Right.Column)
		if err != nil {
			return "", nil, err
		}
		qb.addClause(left + " = " + right)
	}

	var selects []string
	selects = append(selects, "p0.document_id")
	selects = append(selects, documentColumns...)
	var from []string
	var sentenceJoins []string
	var order []string
	order = append(order, "p0.document_id DESC")
	for slot := 0; slot < req.Slots; slot++ {
		p, s := slotAlias(slot), sentenceAlias(slot)
		for _, c := range slotColumns {
			selects = append(selects, p+"."+c)
		}
		selects = append(selects, "COALESCE("+s+".text, '')")
		from = append(from, "predication "+p)
		sentenceJoins = append(sentenceJoins,
			fmt.Sprintf("LEFT JOIN sentence %s ON %s.id = %s.sentence_id", s, s, p))
		order = append(order, p+".id")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(selects, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(strings.Join(from, ", "))
	sb.WriteString(" LEFT JOIN document d ON d.id = p0.document_id AND d.collection = p0.document_collection ")
	sb.WriteString(strings.Join(sentenceJoins, " "))
	sb.WriteString(" WHERE ")
	sb.WriteString(qb.build())
	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(order, ", "))

	args := qb.args
	if req.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, req.Limit)
	}
	return sb.String(), args, nil
}
