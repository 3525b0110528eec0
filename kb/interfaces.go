package kb

import (
	"context"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb/types"
)

// FactStore executes compiled requests against the relational fact store.
// Errors are returned to the caller unmodified apart from added context.
type FactStore interface {
	Execute(ctx context.Context, req *types.Request) ([]types.RawRow, error)
}

// OntologyIndex answers taxonomy lookups. Implementations must be safe for
// unsynchronized concurrent reads. Misses wrap errors.ErrNotFound.
type OntologyIndex interface {
	// TreeNumbersFor returns every tree number of an entity id
	TreeNumbersFor(entityID string) ([]string, error)

	// EntryForPrefix returns the concept registered for a tree-number prefix
	EntryForPrefix(prefix string) (types.OntologyEntry, error)
}

// EntityResolver resolves entity ids to display headings.
// Misses wrap errors.ErrNotFound; callers fall back to the surface form.
type EntityResolver interface {
	DisplayNameFor(ctx context.Context, entityID, entityType string) (string, error)
}

// ResultCache persists result trees by (collection, query fingerprint).
// Concurrent stores of the same key are allowed; the last write wins.
type ResultCache interface {
	Load(ctx context.Context, collection, fingerprint string) (*types.CachedResult, bool, error)
	Store(ctx context.Context, collection, fingerprint string, result *types.CachedResult) error
}

// NoOpEntityResolver is a resolver that never finds a name.
// Use this when no name table is available.
type NoOpEntityResolver struct{}

// DisplayNameFor always reports a miss
func (NoOpEntityResolver) DisplayNameFor(_ context.Context, entityID, entityType string) (string, error) {
	return "", errors.NewNotFoundError("no display name for %s (%s)", entityID, entityType)
}

// NoOpResultCache never holds anything and discards stores
type NoOpResultCache struct{}

// Load always misses
func (NoOpResultCache) Load(context.Context, string, string) (*types.CachedResult, bool, error) {
	return nil, false, nil
}

// Store discards the result
func (NoOpResultCache) Store(context.Context, string, string, *types.CachedResult) error {
	return nil
}

// EmptyOntology is an index without any concepts
type EmptyOntology struct{}

// TreeNumbersFor always reports a miss
func (EmptyOntology) TreeNumbersFor(entityID string) ([]string, error) {
	return nil, errors.NewNotFoundError("no tree numbers for %s", entityID)
}

// EntryForPrefix always reports a miss
func (EmptyOntology) EntryForPrefix(prefix string) (types.OntologyEntry, error) {
	return types.OntologyEntry{}, errors.NewNotFoundError("no ontology entry for %s", prefix)
}

// Compile-time interface checks
var (
	_ EntityResolver     = NoOpEntityResolver{}
	_ ResultCache        = NoOpResultCache{}
	_ OntologyIndex      = EmptyOntology{}
	_ types.NameResolver = EntityResolver(nil)
)
