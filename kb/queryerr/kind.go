package queryerr

// Kind identifies why a graph query was rejected
type Kind string

const (
	// KindEmpty indicates the query had no fact patterns
	KindEmpty Kind = "empty"

	// KindAmbiguousVariableRole indicates a variable was bound both as a
	// predicate and as an entity within the same query
	KindAmbiguousVariableRole Kind = "ambiguous_variable_role"

	// KindUnknownPredicate indicates a bound predicate outside the relation vocabulary
	KindUnknownPredicate Kind = "unknown_predicate"

	// KindInvalidPattern indicates pattern text that could not be parsed
	KindInvalidPattern Kind = "invalid_pattern"
)

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}

// Context keys attached to query errors
const (
	ContextVariable  = "variable"
	ContextPosition  = "position"
	ContextPredicate = "predicate"
	ContextPattern   = "pattern"
	ContextFirstRole = "first_role"
	ContextRole      = "role"
)
