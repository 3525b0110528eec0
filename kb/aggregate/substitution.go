// Package aggregate arranges folded document results into result trees.
//
// Every aggregator partitions its input: each DocumentResult it receives
// appears exactly once in the tree it returns. The ontology aggregator is
// the exception by construction, placing a result once per tree number of
// its entity.
package aggregate

import "github.com/teranos/litgraph/kb/types"

// Substitution groups results by their full variable substitution
type Substitution struct{}

// Aggregate returns one Aggregate per distinct substitution, ordered by size
// (largest first when sortDesc) with ties broken by substitution key.
// Documents inside each aggregate are ordered by date in the same direction.
//
// Results without variables are returned as a flat list of documents ordered
// by (year, month), then ascending document id.
func (Substitution) Aggregate(results []*types.DocumentResult, sortDesc bool) *types.AggregateList {
	return groupBySubstitution(results, sortDesc, sortDesc)
}

func groupBySubstitution(results []*types.DocumentResult, sizeDesc, yearDesc bool) *types.AggregateList {
	if !hasVariables(results) {
		docs := append([]*types.DocumentResult(nil), results...)
		sortDocuments(docs, yearDesc)
		return &types.AggregateList{Children: documentNodes(docs)}
	}

	var keys []string
	groups := make(map[string][]*types.DocumentResult)
	for _, r := range results {
		key := r.SubstitutionKey()
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], r)
	}

	aggs := make([]*types.Aggregate, 0, len(keys))
	for _, key := range keys {
		docs := groups[key]
		sortDocuments(docs, yearDesc)
		aggs = append(aggs, &types.Aggregate{
			Substitutions: copySubstitutions(docs[0].Substitutions),
			Children:      documentNodes(docs),
		})
	}
	sortAggregates(aggs, sizeDesc)

	children := make([]types.ResultNode, len(aggs))
	for i, a := range aggs {
		children[i] = a
	}
	return &types.AggregateList{Children: children}
}

func hasVariables(results []*types.DocumentResult) bool {
	for _, r := range results {
		if len(r.Substitutions) > 0 {
			return true
		}
	}
	return false
}

func copySubstitutions(subs map[string]types.EntitySubstitution) map[string]types.EntitySubstitution {
	out := make(map[string]types.EntitySubstitution, len(subs))
	for k, v := range subs {
		out[k] = v
	}
	return out
}

// Flat lists results as documents without any grouping
type Flat struct{}

// Aggregate orders results by date (newest first when sortDesc), then by
// ascending document id and substitution key
func (Flat) Aggregate(results []*types.DocumentResult, sortDesc bool) *types.AggregateList {
	docs := append([]*types.DocumentResult(nil), results...)
	sortDocuments(docs, sortDesc)
	return &types.AggregateList{Children: documentNodes(docs)}
}
