package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/kballard/go-shellquote"
)

// TermKind distinguishes bound literals from named variables
type TermKind int

const (
	TermBound TermKind = iota
	TermVariable
)

// Term is one position of a fact pattern.
//
// Bound entity: ID is the entity id, Type an optional entity type.
// Bound predicate: ID is the raw predicate text.
// Variable: Var is the name without the leading '?', Type an optional constraint.
// A predicate variable may carry a signature in SubjectType and ObjectType.
type Term struct {
	Kind        TermKind
	ID          string
	Type        string
	Var         string
	SubjectType string
	ObjectType  string
}

// Entity returns a bound entity term
func Entity(id, entityType string) Term {
	return Term{Kind: TermBound, ID: id, Type: entityType}
}

// Predicate returns a bound predicate term
func Predicate(raw string) Term {
	return Term{Kind: TermBound, ID: raw}
}

// Var returns a variable term with an optional type constraint
func Var(name, typeConstraint string) Term {
	return Term{Kind: TermVariable, Var: name, Type: typeConstraint}
}

// PredicateVar returns a predicate variable constrained to a subject/object type signature
func PredicateVar(name, subjectType, objectType string) Term {
	return Term{Kind: TermVariable, Var: name, SubjectType: subjectType, ObjectType: objectType}
}

// IsVariable reports whether the term is a named variable
func (t Term) IsVariable() bool {
	return t.Kind == TermVariable
}

// String renders the term in pattern-language form
func (t Term) String() string {
	if t.IsVariable() {
		s := "?" + t.Var
		switch {
		case t.SubjectType != "" || t.ObjectType != "":
			s += "(" + t.SubjectType + "," + t.ObjectType + ")"
		case t.Type != "":
			s += "(" + t.Type + ")"
		}
		return quoteToken(s)
	}
	if t.Type != "" {
		return quoteToken(t.Type + ":" + t.ID)
	}
	return quoteToken(t.ID)
}

// quoteToken shell-quotes tokens that would otherwise split on whitespace
func quoteToken(s string) string {
	if strings.ContainsAny(s, " \t\n'\"\\") {
		return shellquote.Join(s)
	}
	return s
}

// FactPattern is one subject-predicate-object triple of a graph query
type FactPattern struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// String renders the pattern in canonical text form
func (p FactPattern) String() string {
	return p.Subject.String() + " " + p.Predicate.String() + " " + p.Object.String()
}

// PatternSeparator joins patterns in the canonical text form of a query
const PatternSeparator = " _AND_ "

// GraphQuery is an immutable, ordered conjunction of fact patterns
type GraphQuery struct {
	patterns []FactPattern
}

// NewGraphQuery builds a query owning a copy of the given patterns
func NewGraphQuery(patterns ...FactPattern) *GraphQuery {
	owned := make([]FactPattern, len(patterns))
	copy(owned, patterns)
	return &GraphQuery{patterns: owned}
}

// Patterns returns a copy of the query's patterns
func (q *GraphQuery) Patterns() []FactPattern {
	out := make([]FactPattern, len(q.patterns))
	copy(out, q.patterns)
	return out
}

// Len returns the number of patterns
func (q *GraphQuery) Len() int {
	if q == nil {
		return 0
	}
	return len(q.patterns)
}

// Variables returns the variable names in order of first appearance
func (q *GraphQuery) Variables() []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range q.patterns {
		for _, t := range []Term{p.Subject, p.Predicate, p.Object} {
			if t.IsVariable() && !seen[t.Var] {
				seen[t.Var] = true
				names = append(names, t.Var)
			}
		}
	}
	return names
}

// String renders the canonical text form of the query
func (q *GraphQuery) String() string {
	parts := make([]string, len(q.patterns))
	for i, p := range q.patterns {
		parts[i] = p.String()
	}
	return strings.Join(parts, PatternSeparator)
}

// Fingerprint returns the hex SHA-256 digest of the canonical text form.
// Equal queries always produce equal fingerprints.
func (q *GraphQuery) Fingerprint() string {
	sum := sha256.Sum256([]byte(q.String()))
	return hex.EncodeToString(sum[:])
}
