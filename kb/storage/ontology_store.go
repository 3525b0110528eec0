package storage

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb"
	"github.com/teranos/litgraph/kb/types"
)

// meshIDPrefix is how entity ids in the predication table refer to descriptors
const meshIDPrefix = "MESH:"

// MeshIndex is an immutable in-memory copy of the mesh_tree table.
// It is safe for concurrent reads.
type MeshIndex struct {
	treeNumbers map[string][]string
	entries     map[string]types.OntologyEntry
}

var _ kb.OntologyIndex = (*MeshIndex)(nil)

// MeshRow is one (descriptor, tree number) pair
type MeshRow struct {
	DescriptorID string
	Heading      string
	TreeNumber   string
}

// NewMeshIndex builds an index from descriptor rows
func NewMeshIndex(rows []MeshRow) *MeshIndex {
	idx := &MeshIndex{
		treeNumbers: make(map[string][]string),
		entries:     make(map[string]types.OntologyEntry),
	}
	for _, r := range rows {
		id := strings.TrimPrefix(r.DescriptorID, meshIDPrefix)
		idx.treeNumbers[id] = append(idx.treeNumbers[id], r.TreeNumber)
		idx.entries[r.TreeNumber] = types.OntologyEntry{ID: meshIDPrefix + id, Name: r.Heading}
	}
	for id := range idx.treeNumbers {
		sort.Strings(idx.treeNumbers[id])
	}
	return idx
}

// LoadMeshIndex reads the whole mesh_tree table into an index
func LoadMeshIndex(ctx context.Context, db *sql.DB) (*MeshIndex, error) {
	rows, err := db.QueryContext(ctx, `SELECT descriptor_id, heading, tree_number FROM mesh_tree`)
	if err != nil {
		err = errors.Wrap(err, "failed to query mesh_tree")
		return nil, errors.WithDetail(err, "Operation: LoadMeshIndex")
	}
	defer rows.Close()

	var all []MeshRow
	for rows.Next() {
		var r MeshRow
		if err := rows.Scan(&r.DescriptorID, &r.Heading, &r.TreeNumber); err != nil {
			return nil, errors.Wrap(err, "failed to scan mesh_tree row")
		}
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate mesh_tree rows")
	}
	return NewMeshIndex(all), nil
}

// Len returns the number of distinct tree numbers
func (m *MeshIndex) Len() int {
	return len(m.entries)
}

// TreeNumbersFor accepts descriptor ids with or without the MESH: prefix
func (m *MeshIndex) TreeNumbersFor(entityID string) ([]string, error) {
	numbers, ok := m.treeNumbers[strings.TrimPrefix(entityID, meshIDPrefix)]
	if !ok {
		return nil, errors.NewNotFoundError("no tree numbers for %s", entityID)
	}
	return append([]string(nil), numbers...), nil
}

// EntryForPrefix returns the descriptor whose tree number equals prefix
func (m *MeshIndex) EntryForPrefix(prefix string) (types.OntologyEntry, error) {
	entry, ok := m.entries[prefix]
	if !ok {
		return types.OntologyEntry{}, errors.NewNotFoundError("no ontology entry for %s", prefix)
	}
	return entry, nil
}
