// Package compile translates graph queries into fact-store requests.
//
// Each fact pattern becomes one slot, a row source over the predication
// table. All slots are restricted to the requested collection and joined on
// document_id. Bound terms become filters; a variable is bound to the slot
// and role where it first appears, and every later sighting becomes a join
// back to that representative column.
package compile

import (
	"context"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb"
	"github.com/teranos/litgraph/kb/queryerr"
	"github.com/teranos/litgraph/kb/types"
)

// Compile validates q and builds the request that executes it.
//
// rowLimit caps the number of rows returned; 0 means unbounded. The request
// asks for one extra row so callers can tell a full page from a truncated one.
// Every error is raised before any store access.
func Compile(q *types.GraphQuery, collection string, rowLimit int) (*types.CompiledQuery, error) {
	if q.Len() == 0 {
		return nil, queryerr.Empty()
	}
	if collection == "" {
		return nil, errors.NewInvalidRequestError("collection is required")
	}
	if rowLimit < 0 {
		return nil, errors.NewInvalidRequestError("row limit must be >= 0, got %d", rowLimit)
	}

	c := &compiler{
		req: &types.Request{
			Collection: collection,
			Slots:      q.Len(),
		},
		bindings: make(map[string]types.VariableBinding),
	}
	if rowLimit > 0 {
		c.req.Limit = rowLimit + 1
	}

	for slot, p := range q.Patterns() {
		if slot > 0 {
			c.join(types.ColumnRef{Slot: slot, Column: types.ColumnDocumentID}, types.ColumnRef{Slot: 0, Column: types.ColumnDocumentID})
		}
		if err := c.entity(slot, types.RoleSubject, p.Subject); err != nil {
			return nil, err
		}
		if err := c.predicate(slot, p.Predicate); err != nil {
			return nil, err
		}
		if err := c.entity(slot, types.RoleObject, p.Object); err != nil {
			return nil, err
		}
	}

	return &types.CompiledQuery{
		Query:     q,
		Request:   c.req,
		Variables: c.order,
	}, nil
}

// CompileAndExecute compiles q, runs it against store and truncates the rows
// to rowLimit. limitHit reports whether truncation happened.
func CompileAndExecute(ctx context.Context, store kb.FactStore, q *types.GraphQuery, collection string, rowLimit int) (rows []types.RawRow, limitHit bool, compiled *types.CompiledQuery, err error) {
	compiled, err = Compile(q, collection, rowLimit)
	if err != nil {
		return nil, false, nil, err
	}

	rows, err = store.Execute(ctx, compiled.Request)
	if err != nil {
		return nil, false, compiled, errors.Wrap(err, "failed to execute graph query")
	}

	if rowLimit > 0 && len(rows) > rowLimit {
		rows = rows[:rowLimit]
		limitHit = true
	}
	return rows, limitHit, compiled, nil
}

type compiler struct {
	req      *types.Request
	bindings map[string]types.VariableBinding
	order    []types.VariableBinding
}

func (c *compiler) filter(slot int, column types.Column, value string) {
	c.req.Filters = append(c.req.Filters, types.Filter{Slot: slot, Column: column, Value: value})
}

func (c *compiler) join(left, right types.ColumnRef) {
	c.req.Joins = append(c.req.Joins, types.Join{Left: left, Right: right})
}

func (c *compiler) entity(slot int, role types.Role, t types.Term) error {
	typeColumn, _ := role.TypeColumn()

	if !t.IsVariable() {
		c.filter(slot, role.IDColumn(), t.ID)
		if t.Type != "" {
			c.filter(slot, typeColumn, t.Type)
		}
		return nil
	}

	rep, seen, err := c.bind(slot, role, t)
	if err != nil {
		return err
	}
	if t.Type != "" {
		c.filter(slot, typeColumn, t.Type)
	}
	if seen {
		repTypeColumn, _ := rep.Role.TypeColumn()
		c.join(types.ColumnRef{Slot: slot, Column: role.IDColumn()}, types.ColumnRef{Slot: rep.Slot, Column: rep.Role.IDColumn()})
		c.join(types.ColumnRef{Slot: slot, Column: typeColumn}, types.ColumnRef{Slot: rep.Slot, Column: repTypeColumn})
	}
	return nil
}

func (c *compiler) predicate(slot int, t types.Term) error {
	if !t.IsVariable() {
		canonical, ok := types.CanonicalPredicate(t.ID)
		if !ok {
			return queryerr.UnknownPredicate(t.ID, slot)
		}
		c.filter(slot, types.ColumnPredicateCanonical, canonical)
		return nil
	}

	rep, seen, err := c.bind(slot, types.RolePredicate, t)
	if err != nil {
		return err
	}
	// A signature constrains the entity types on either side of this slot
	if t.SubjectType != "" {
		c.filter(slot, types.ColumnSubjectType, t.SubjectType)
	}
	if t.ObjectType != "" {
		c.filter(slot, types.ColumnObjectType, t.ObjectType)
	}
	if seen {
		c.join(types.ColumnRef{Slot: slot, Column: types.ColumnPredicateCanonical}, types.ColumnRef{Slot: rep.Slot, Column: types.ColumnPredicateCanonical})
	}
	return nil
}

// bind records the first sighting of a variable, or checks a later sighting
// against it. seen is false for the first sighting.
func (c *compiler) bind(slot int, role types.Role, t types.Term) (rep types.VariableBinding, seen bool, err error) {
	rep, seen = c.bindings[t.Var]
	if !seen {
		rep = types.VariableBinding{Name: t.Var, Slot: slot, Role: role, Type: t.Type}
		c.bindings[t.Var] = rep
		c.order = append(c.order, rep)
		return rep, false, nil
	}
	if rep.Role.IsPredicate() != role.IsPredicate() {
		return rep, true, queryerr.AmbiguousVariableRole(t.Var, string(rep.Role), string(role), slot)
	}
	return rep, true, nil
}
