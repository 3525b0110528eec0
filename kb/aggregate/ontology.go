package aggregate

import (
	"sort"

	"go.uber.org/zap"

	"github.com/teranos/litgraph/kb"
	"github.com/teranos/litgraph/kb/types"
	"github.com/teranos/litgraph/logger"
)

// Ontology groups the results of one variable along the taxonomy.
// A nil Index behaves as an empty ontology; a nil Logger is silent.
type Ontology struct {
	Index  kb.OntologyIndex
	Logger *zap.SugaredLogger
}

// placement is one position of a result in the taxonomy
type placement struct {
	treeNumber string
	result     *types.DocumentResult
}

// Aggregate builds one tree per taxonomy root plus one miscellaneous bucket
// per entity type whose results have no tree numbers.
//
// A result is placed under every tree number of its entity. Lookup failures
// never fail the call: missing tree numbers route the result to its
// miscellaneous bucket, and a prefix without an ontology entry is skipped,
// its subtrees moving up to the parent. Intermediate concepts with exactly
// one child and no documents of their own are collapsed into that child.
//
// Buckets and every internal level are ordered by document count per
// sortDesc; documents are ordered by date per yearSortDesc.
func (o Ontology) Aggregate(results []*types.DocumentResult, variable string, sortDesc, yearSortDesc bool) *types.AggregateList {
	b := &ontologyBuilder{
		index:    o.Index,
		log:      o.Logger,
		variable: variable,
		nodes:    make(map[string]*types.Aggregate),
	}
	if b.index == nil {
		b.index = kb.EmptyOntology{}
	}
	if b.log == nil {
		b.log = zap.NewNop().Sugar()
	}

	byRoot, misc := b.place(results)

	var buckets []types.ResultNode
	for _, root := range sortedKeys(byRoot) {
		entries := byRoot[root]
		label := types.TaxonomyRootLabel(root)
		bucket := &types.Aggregate{
			Substitutions: map[string]types.EntitySubstitution{variable: {
				EntityStr:  label,
				EntityID:   root,
				EntityType: types.TypeTaxonomyRoot,
				EntityName: label,
			}},
			Label:    root,
			Children: b.build(entries, 0),
		}
		b.attach(entries)
		if bucket.Size() > 0 {
			buckets = append(buckets, bucket)
		}
	}

	for _, entityType := range sortedKeys(misc) {
		grouped := groupBySubstitution(misc[entityType], sortDesc, yearSortDesc)
		label := entityType
		if label == "" {
			label = "Unknown"
		}
		buckets = append(buckets, &types.Aggregate{
			Substitutions: map[string]types.EntitySubstitution{variable: {
				EntityStr:  label,
				EntityID:   entityType,
				EntityType: types.TypeMiscBucket,
				EntityName: label,
			}},
			Label:    label,
			Children: grouped.Children,
		})
	}

	sortTree(buckets, sortDesc, yearSortDesc)
	return &types.AggregateList{Children: buckets}
}

type ontologyBuilder struct {
	index    kb.OntologyIndex
	log      *zap.SugaredLogger
	variable string
	// nodes maps an exact tree number to the node that receives its documents
	nodes map[string]*types.Aggregate
}

// place splits results into taxonomy placements grouped by root, and
// miscellaneous results grouped by entity type
func (b *ontologyBuilder) place(results []*types.DocumentResult) (map[string][]placement, map[string][]*types.DocumentResult) {
	byRoot := make(map[string][]placement)
	misc := make(map[string][]*types.DocumentResult)
	treeNumbers := make(map[string][]string)

	for _, r := range results {
		sub := r.Substitutions[b.variable]
		if !types.IsTaxonomyType(sub.EntityType) {
			misc[sub.EntityType] = append(misc[sub.EntityType], r)
			continue
		}

		numbers, ok := treeNumbers[sub.EntityID]
		if !ok {
			numbers = b.lookupTreeNumbers(sub)
			treeNumbers[sub.EntityID] = numbers
		}
		if len(numbers) == 0 {
			misc[sub.EntityType] = append(misc[sub.EntityType], r)
			continue
		}

		for i, tn := range numbers {
			placed := r
			if i > 0 {
				placed = r.Clone()
			}
			root := types.TaxonomyRoot(tn)
			byRoot[root] = append(byRoot[root], placement{treeNumber: tn, result: placed})
		}
	}
	return byRoot, misc
}

func (b *ontologyBuilder) lookupTreeNumbers(sub types.EntitySubstitution) []string {
	numbers, err := b.index.TreeNumbersFor(sub.EntityID)
	if err != nil || len(numbers) == 0 {
		b.log.Debugw("No tree numbers, using miscellaneous bucket",
			logger.FieldEntityID, sub.EntityID,
			logger.FieldEntityType, sub.EntityType,
			logger.FieldError, err,
		)
		return nil
	}

	unique := make([]string, 0, len(numbers))
	seen := make(map[string]bool, len(numbers))
	for _, tn := range numbers {
		if tn != "" && !seen[tn] {
			seen[tn] = true
			unique = append(unique, tn)
		}
	}
	sort.Strings(unique)
	return unique
}

// build returns the subtrees for entries below a prefix of the given depth.
// Each call hands back owned nodes; the caller decides whether to wrap them.
func (b *ontologyBuilder) build(entries []placement, depth int) []types.ResultNode {
	groups := make(map[string][]placement)
	for _, e := range entries {
		if types.TreeDepth(e.treeNumber) < depth+1 {
			continue
		}
		prefix := types.TreePrefix(e.treeNumber, depth+1)
		groups[prefix] = append(groups[prefix], e)
	}

	var out []types.ResultNode
	for _, prefix := range sortedKeys(groups) {
		group := groups[prefix]
		children := b.build(group, depth+1)

		entry, err := b.index.EntryForPrefix(prefix)
		if err != nil {
			b.log.Warnw("Ontology entry lookup failed, moving subtrees up",
				logger.FieldTreeNumber, prefix,
				logger.FieldError, err,
			)
			out = append(out, children...)
			continue
		}

		direct := false
		for _, e := range group {
			if e.treeNumber == prefix {
				direct = true
				break
			}
		}
		if !direct {
			if len(children) == 1 {
				out = append(out, children[0])
				continue
			}
			if len(children) == 0 {
				continue
			}
		}

		node := &types.Aggregate{
			Substitutions: map[string]types.EntitySubstitution{b.variable: {
				EntityStr:  entry.Name,
				EntityID:   entry.ID,
				EntityType: types.TypeOntologyNode,
				EntityName: entry.Name,
			}},
			Label:    prefix,
			Children: children,
		}
		if direct {
			b.nodes[prefix] = node
		}
		out = append(out, node)
	}
	return out
}

// attach hangs every result under the node of its exact tree number
func (b *ontologyBuilder) attach(entries []placement) {
	for _, e := range entries {
		node, ok := b.nodes[e.treeNumber]
		if !ok {
			b.log.Warnw("Dropping result without ontology node",
				logger.FieldTreeNumber, e.treeNumber,
				logger.FieldDocumentID, e.result.DocumentID,
			)
			continue
		}
		node.Children = append(node.Children, e.result)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
