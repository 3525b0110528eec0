package am

import "github.com/teranos/litgraph/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Row limits: 0 = unbounded, negative = invalid
	if c.Query.RowLimit < 0 {
		return errors.Newf("query.row_limit must be >= 0, got %d", c.Query.RowLimit)
	}
	if c.Query.MaxRowLimit < 0 {
		return errors.Newf("query.max_row_limit must be >= 0, got %d", c.Query.MaxRowLimit)
	}
	if c.Query.MaxRowLimit > 0 && c.Query.RowLimit > c.Query.MaxRowLimit {
		return errors.Newf("query.row_limit (%d) exceeds query.max_row_limit (%d)", c.Query.RowLimit, c.Query.MaxRowLimit)
	}

	// Resolver cache: 0 = disabled, negative = invalid
	if c.Resolver.CacheSize < 0 {
		return errors.Newf("resolver.cache_size must be >= 0, got %d", c.Resolver.CacheSize)
	}

	return nil
}
