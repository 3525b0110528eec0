package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// Default values shared between SetDefaults and the zero-value fallbacks
const (
	DefaultDatabasePath      = "litgraph.db"
	DefaultCollection        = "PubMed"
	DefaultRowLimit          = 5000
	DefaultMaxRowLimit       = 100000
	DefaultResolverCacheSize = 10000
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", DefaultDatabasePath)

	// Query defaults
	v.SetDefault("query.default_collection", DefaultCollection)
	v.SetDefault("query.row_limit", DefaultRowLimit)
	v.SetDefault("query.max_row_limit", DefaultMaxRowLimit)
	v.SetDefault("query.sort_desc", true)
	v.SetDefault("query.year_sort_desc", true)

	// Cache defaults
	v.SetDefault("cache.enabled", true)

	// Resolver defaults
	v.SetDefault("resolver.cache_size", DefaultResolverCacheSize)

	// Log defaults
	v.SetDefault("log.json", false)
}

// BindSensitiveEnvVars explicitly binds configuration that deployments override through the environment
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "LITGRAPH_DATABASE_PATH")
	v.BindEnv("query.default_collection", "LITGRAPH_COLLECTION")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// GetDefaultCollection returns the collection used when none is given
func (c *Config) GetDefaultCollection() string {
	if c.Query.DefaultCollection == "" {
		return DefaultCollection
	}
	return c.Query.DefaultCollection
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Query: {Collection: %s, RowLimit: %d}, Cache: %t}",
		c.Database.Path, c.Query.DefaultCollection, c.Query.RowLimit, c.Cache.Enabled)
}
