package am

// Config represents the litgraph configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Query    QueryConfig    `mapstructure:"query" toml:"query"`
	Cache    CacheConfig    `mapstructure:"cache" toml:"cache"`
	Resolver ResolverConfig `mapstructure:"resolver" toml:"resolver"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
}

// DatabaseConfig configures the SQLite fact store
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// QueryConfig configures graph query execution
type QueryConfig struct {
	DefaultCollection string `mapstructure:"default_collection" toml:"default_collection"` // Collection used when --collection is omitted
	RowLimit          int    `mapstructure:"row_limit" toml:"row_limit"`                   // Rows fetched per query (0 = unbounded)
	MaxRowLimit       int    `mapstructure:"max_row_limit" toml:"max_row_limit"`           // Ceiling for caller-supplied limits (0 = no ceiling)
	SortDesc          bool   `mapstructure:"sort_desc" toml:"sort_desc"`                   // Order aggregates by size descending
	YearSortDesc      bool   `mapstructure:"year_sort_desc" toml:"year_sort_desc"`         // Order documents newest first
}

// CacheConfig configures the persistent query-result cache
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
}

// ResolverConfig configures entity display-name resolution
type ResolverConfig struct {
	CacheSize int `mapstructure:"cache_size" toml:"cache_size"` // LRU entries kept in memory (0 = no in-memory cache)
}

// LogConfig configures log output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json"`
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// EffectiveRowLimit clamps a caller-supplied limit to the configured ceiling.
// A requested limit of 0 or below selects the configured default.
func (c *Config) EffectiveRowLimit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = c.Query.RowLimit
	}
	if c.Query.MaxRowLimit > 0 && (limit == 0 || limit > c.Query.MaxRowLimit) {
		limit = c.Query.MaxRowLimit
	}
	return limit
}
