package storage

import (
	"context"
	"database/sql"

	lru "github.com/hashicorp/golang-lru"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb"
)

// NameStore resolves display headings from the entity_name table
type NameStore struct {
	db *sql.DB
}

// NewNameStore creates a name store
func NewNameStore(db *sql.DB) *NameStore {
	return &NameStore{db: db}
}

var _ kb.EntityResolver = (*NameStore)(nil)

// DisplayNameFor returns the heading of an entity, or an ErrNotFound error
func (n *NameStore) DisplayNameFor(ctx context.Context, entityID, entityType string) (string, error) {
	var name string
	err := n.db.QueryRowContext(ctx,
		`SELECT name FROM entity_name WHERE entity_id = ? AND entity_type = ?`,
		entityID, entityType,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFoundError("no display name for %s (%s)", entityID, entityType)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve display name for %s", entityID)
	}
	return name, nil
}

type resolvedName struct {
	name  string
	found bool
}

// CachedResolver memoises another resolver in a bounded LRU, including misses.
// Lookup errors other than misses are not cached.
type CachedResolver struct {
	next  kb.EntityResolver
	cache *lru.Cache
}

var _ kb.EntityResolver = (*CachedResolver)(nil)

// NewCachedResolver wraps next with an LRU of the given size
func NewCachedResolver(next kb.EntityResolver, size int) (*CachedResolver, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create name cache of size %d", size)
	}
	return &CachedResolver{next: next, cache: cache}, nil
}

// DisplayNameFor consults the cache before the wrapped resolver
func (c *CachedResolver) DisplayNameFor(ctx context.Context, entityID, entityType string) (string, error) {
	key := entityType + "\x00" + entityID
	if v, ok := c.cache.Get(key); ok {
		r := v.(resolvedName)
		if !r.found {
			return "", errors.NewNotFoundError("no display name for %s (%s)", entityID, entityType)
		}
		return r.name, nil
	}

	name, err := c.next.DisplayNameFor(ctx, entityID, entityType)
	switch {
	case err == nil:
		c.cache.Add(key, resolvedName{name: name, found: true})
	case errors.IsNotFoundError(err):
		c.cache.Add(key, resolvedName{})
	}
	return name, err
}

// Len returns the number of cached entries
func (c *CachedResolver) Len() int {
	return c.cache.Len()
}
