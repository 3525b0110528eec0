// Package fold turns raw fact-store rows into one DocumentResult per
// document and full variable substitution.
package fold

import (
	"strconv"

	"github.com/teranos/litgraph/kb/types"
)

// Fold groups rows by (document, substitution). A group's confidence is the
// sum of the slot confidences of all its rows; each slot of each row adds an
// explanation, merged per (position, sentence). Output follows first
// appearance, but callers must not rely on any order.
func Fold(vars []types.VariableBinding, rows []types.RawRow) []*types.DocumentResult {
	var results []*types.DocumentResult
	groups := make(map[string]*types.DocumentResult)

	for _, row := range rows {
		subs := substitutions(vars, row)
		key := strconv.FormatInt(row.DocumentID, 10) + "/" + types.SubstitutionKey(subs)

		result, ok := groups[key]
		if !ok {
			result = &types.DocumentResult{
				DocumentID:       row.DocumentID,
				Title:            row.Title,
				Authors:          row.Authors,
				Journals:         row.Journals,
				PublicationYear:  row.PublicationYear,
				PublicationMonth: row.PublicationMonth,
				Substitutions:    subs,
			}
			groups[key] = result
			results = append(results, result)
		}

		result.Confidence += row.Confidence()
		for position, slot := range row.Slots {
			result.AddExplanation(explanation(position, slot))
		}
	}
	return results
}

func substitutions(vars []types.VariableBinding, row types.RawRow) map[string]types.EntitySubstitution {
	subs := make(map[string]types.EntitySubstitution, len(vars))
	for _, v := range vars {
		if v.Slot < 0 || v.Slot >= len(row.Slots) {
			continue
		}
		subs[v.Name] = row.Slots[v.Slot].Substitution(v.Role)
	}
	return subs
}

func explanation(position int, slot types.SlotValues) types.FactExplanation {
	return types.FactExplanation{
		Position:   position,
		SentenceID: slot.SentenceID,
		Sentence:   slot.Sentence,
		Predicate:  slot.Predicate,
		Relation:   slot.PredicateCanonical,
		SubjectStr: slot.SubjectStr,
		ObjectStr:  slot.ObjectStr,
		Confidence: slot.Confidence,
		RowIDs:     []int64{slot.RowID},
	}
}
