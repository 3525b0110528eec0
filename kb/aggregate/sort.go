package aggregate

import (
	"sort"

	"github.com/teranos/litgraph/kb/types"
)

// sortDocuments orders documents by (year, month), newest first when desc,
// breaking ties by ascending document id and then substitution key.
func sortDocuments(docs []*types.DocumentResult, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		return documentLess(docs[i], docs[j], desc)
	})
}

func documentLess(a, b *types.DocumentResult, desc bool) bool {
	if a.PublicationYear != b.PublicationYear {
		if desc {
			return a.PublicationYear > b.PublicationYear
		}
		return a.PublicationYear < b.PublicationYear
	}
	if a.PublicationMonth != b.PublicationMonth {
		if desc {
			return a.PublicationMonth > b.PublicationMonth
		}
		return a.PublicationMonth < b.PublicationMonth
	}
	if a.DocumentID != b.DocumentID {
		return a.DocumentID < b.DocumentID
	}
	return a.SubstitutionKey() < b.SubstitutionKey()
}

// sortAggregates orders aggregates by size, largest first when desc,
// breaking ties by ascending key.
func sortAggregates(aggs []*types.Aggregate, desc bool) {
	sizes := make(map[*types.Aggregate]int, len(aggs))
	keys := make(map[*types.Aggregate]string, len(aggs))
	for _, a := range aggs {
		sizes[a] = a.Size()
		keys[a] = a.Key()
	}
	sort.SliceStable(aggs, func(i, j int) bool {
		si, sj := sizes[aggs[i]], sizes[aggs[j]]
		if si != sj {
			if desc {
				return si > sj
			}
			return si < sj
		}
		return keys[aggs[i]] < keys[aggs[j]]
	})
}

// sortTree orders children in place and recurses into every aggregate:
// aggregates first, ordered by size, then documents ordered by date.
func sortTree(children []types.ResultNode, sizeDesc, yearDesc bool) {
	var lists []*types.AggregateList
	var aggs []*types.Aggregate
	var docs []*types.DocumentResult
	for _, c := range children {
		switch n := c.(type) {
		case *types.Aggregate:
			sortTree(n.Children, sizeDesc, yearDesc)
			aggs = append(aggs, n)
		case *types.AggregateList:
			// Built trees never nest lists; keep any in their original order
			sortTree(n.Children, sizeDesc, yearDesc)
			lists = append(lists, n)
		case *types.DocumentResult:
			docs = append(docs, n)
		}
	}

	sortAggregates(aggs, sizeDesc)
	sortDocuments(docs, yearDesc)

	i := 0
	for _, l := range lists {
		children[i] = l
		i++
	}
	for _, a := range aggs {
		children[i] = a
		i++
	}
	for _, d := range docs {
		children[i] = d
		i++
	}
}

// documentNodes converts documents to tree nodes
func documentNodes(docs []*types.DocumentResult) []types.ResultNode {
	nodes := make([]types.ResultNode, len(docs))
	for i, d := range docs {
		nodes[i] = d
	}
	return nodes
}
