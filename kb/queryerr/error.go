// Package queryerr defines the errors raised while parsing and compiling
// graph queries. Every QueryError wraps errors.ErrQuery, so callers can test
// for "the query itself is bad" without caring which check rejected it.
package queryerr

import (
	"time"

	"github.com/teranos/litgraph/errors"
)

// QueryError is a fatal, pre-execution rejection of a graph query
type QueryError struct {
	Err         error                  // Underlying error, always wraps errors.ErrQuery
	Kind        Kind                   // Which check rejected the query
	UserMessage string                 // User-friendly message for CLI display
	Context     map[string]interface{} // Additional context for debugging
	Timestamp   time.Time              // When the error occurred
}

// Error implements the error interface
func (e *QueryError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error for errors.Is/As compatibility
func (e *QueryError) Unwrap() error {
	return e.Err
}

// New creates a QueryError of the given kind
func New(kind Kind, userMsg string) *QueryError {
	return &QueryError{
		Err:         errors.Wrap(errors.ErrQuery, string(kind)),
		Kind:        kind,
		UserMessage: userMsg,
		Context:     make(map[string]interface{}),
		Timestamp:   time.Now(),
	}
}

// Newf creates a QueryError whose message is formatted from args
func Newf(kind Kind, format string, args ...interface{}) *QueryError {
	msg := errors.Newf(format, args...).Error()
	return &QueryError{
		Err:         errors.Wrap(errors.ErrQuery, msg),
		Kind:        kind,
		UserMessage: msg,
		Context:     make(map[string]interface{}),
		Timestamp:   time.Now(),
	}
}

// WithContext adds a context key-value pair for debugging
func (e *QueryError) WithContext(key string, value interface{}) *QueryError {
	e.Context[key] = value
	return e
}

// Empty reports a query with no fact patterns
func Empty() *QueryError {
	return New(KindEmpty, "graph query has no fact patterns")
}

// AmbiguousVariableRole reports a variable used both as predicate and entity
func AmbiguousVariableRole(variable, firstRole, role string, position int) *QueryError {
	return Newf(KindAmbiguousVariableRole,
		"variable ?%s is bound as %s and later used as %s in pattern %d", variable, firstRole, role, position).
		WithContext(ContextVariable, variable).
		WithContext(ContextFirstRole, firstRole).
		WithContext(ContextRole, role).
		WithContext(ContextPosition, position)
}

// UnknownPredicate reports a bound predicate outside the vocabulary
func UnknownPredicate(predicate string, position int) *QueryError {
	return Newf(KindUnknownPredicate, "unknown predicate %q in pattern %d", predicate, position).
		WithContext(ContextPredicate, predicate).
		WithContext(ContextPosition, position)
}

// InvalidPattern reports pattern text that could not be parsed
func InvalidPattern(pattern, reason string) *QueryError {
	return Newf(KindInvalidPattern, "invalid pattern %q: %s", pattern, reason).
		WithContext(ContextPattern, pattern)
}

// Is reports whether err is, or wraps, a QueryError of the given kind
func Is(err error, kind Kind) bool {
	var qe *QueryError
	if !errors.As(err, &qe) {
		return false
	}
	return qe.Kind == kind
}
