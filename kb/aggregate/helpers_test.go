package aggregate

import (
	"fmt"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb/types"
)

func result(docID int64, year, month int, subs ...string) *types.DocumentResult {
	r := &types.DocumentResult{
		DocumentID:       docID,
		Title:            fmt.Sprintf("doc %d", docID),
		PublicationYear:  year,
		PublicationMonth: month,
		Substitutions:    map[string]types.EntitySubstitution{},
	}
	// subs are (variable, id, type) triples
	for i := 0; i+2 < len(subs); i += 3 {
		r.Substitutions[subs[i]] = types.EntitySubstitution{EntityStr: subs[i+1], EntityID: subs[i+1], EntityType: subs[i+2]}
	}
	return r
}

func docIDs(node types.ResultNode) []int64 {
	var ids []int64
	for _, d := range types.Documents(node) {
		ids = append(ids, d.DocumentID)
	}
	return ids
}

// fakeOntology serves tree numbers and prefix entries from maps
type fakeOntology struct {
	treeNumbers map[string][]string
	entries     map[string]types.OntologyEntry
	lookups     int
}

func (f *fakeOntology) TreeNumbersFor(entityID string) ([]string, error) {
	f.lookups++
	numbers, ok := f.treeNumbers[entityID]
	if !ok {
		return nil, errors.NewNotFoundError("no tree numbers for %s", entityID)
	}
	return numbers, nil
}

func (f *fakeOntology) EntryForPrefix(prefix string) (types.OntologyEntry, error) {
	entry, ok := f.entries[prefix]
	if !ok {
		return types.OntologyEntry{}, errors.NewNotFoundError("no entry for %s", prefix)
	}
	return entry, nil
}

// entriesFor registers an entry for every prefix of the given tree numbers
func entriesFor(treeNumbers ...string) map[string]types.OntologyEntry {
	entries := make(map[string]types.OntologyEntry)
	for _, tn := range treeNumbers {
		for depth := 1; depth <= types.TreeDepth(tn); depth++ {
			prefix := types.TreePrefix(tn, depth)
			entries[prefix] = types.OntologyEntry{ID: "desc-" + prefix, Name: "Concept " + prefix}
		}
	}
	return entries
}
