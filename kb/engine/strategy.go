package engine

import (
	"strings"

	"github.com/teranos/litgraph/errors"
)

// Strategy selects how folded results are arranged into a tree
type Strategy string

const (
	// StrategyAuto picks flat, substitution or tree by variable count
	StrategyAuto Strategy = "auto"
	// StrategyFlat lists documents without grouping
	StrategyFlat Strategy = "flat"
	// StrategySubstitution groups by full substitution
	StrategySubstitution Strategy = "substitution"
	// StrategyTree nests one level per ordered variable
	StrategyTree Strategy = "tree"
	// StrategyOntology groups the single variable along the taxonomy
	StrategyOntology Strategy = "ontology"
)

// Strategies lists every accepted strategy name
var Strategies = []Strategy{StrategyAuto, StrategyFlat, StrategySubstitution, StrategyTree, StrategyOntology}

// ParseStrategy accepts a strategy name case-insensitively; empty means auto
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return StrategyAuto, nil
	}
	candidate := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Strategies {
		if candidate == known {
			return known, nil
		}
	}
	return "", errors.NewInvalidRequestError("unknown strategy %q", s)
}

// resolve replaces auto with a concrete strategy for a query binding n variables
func (s Strategy) resolve(variables int) Strategy {
	if s != StrategyAuto {
		return s
	}
	switch {
	case variables == 0:
		return StrategyFlat
	case variables == 1:
		return StrategySubstitution
	default:
		return StrategyTree
	}
}
