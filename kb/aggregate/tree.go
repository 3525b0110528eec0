package aggregate

import (
	"strings"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb/types"
)

// SubstitutionTree nests results along an ordered list of variables
type SubstitutionTree struct{}

// Aggregate builds one tree level per variable in orderedVars. Nodes are
// shared by every group whose substitutions agree on the path so far, so the
// tree branches only where substitutions diverge. Leaves are the documents.
//
// Every level is ordered by recursive document count (largest first when
// sortDesc); documents are ordered by date in the same direction.
func (SubstitutionTree) Aggregate(results []*types.DocumentResult, orderedVars []string, sortDesc bool) (*types.AggregateList, error) {
	if err := validateOrder(results, orderedVars); err != nil {
		return nil, err
	}

	root := &types.AggregateList{}
	nodes := make(map[string]*types.Aggregate)

	var keys []string
	groups := make(map[string][]*types.DocumentResult)
	for _, r := range results {
		key := r.SubstitutionKey()
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], r)
	}

	for _, key := range keys {
		docs := groups[key]
		subs := docs[0].Substitutions

		var path strings.Builder
		var parent *types.Aggregate
		for _, name := range orderedVars {
			sub := subs[name]
			path.WriteString(name + "=" + sub.Key() + ";")

			node, ok := nodes[path.String()]
			if !ok {
				node = &types.Aggregate{
					Substitutions: map[string]types.EntitySubstitution{name: sub},
				}
				nodes[path.String()] = node
				if parent == nil {
					root.Children = append(root.Children, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}
			parent = node
		}
		parent.Children = append(parent.Children, documentNodes(docs)...)
	}

	sortTree(root.Children, sortDesc, sortDesc)
	return root, nil
}

func validateOrder(results []*types.DocumentResult, orderedVars []string) error {
	if len(orderedVars) == 0 {
		return errors.NewInvalidRequestError("substitution tree needs at least one variable")
	}
	seen := make(map[string]bool, len(orderedVars))
	for _, name := range orderedVars {
		if seen[name] {
			return errors.NewInvalidRequestError("variable %q listed twice", name)
		}
		seen[name] = true
	}
	for _, r := range results {
		for _, name := range orderedVars {
			if _, ok := r.Substitutions[name]; !ok {
				return errors.NewInvalidRequestError("unknown variable %q", name)
			}
		}
	}
	return nil
}
