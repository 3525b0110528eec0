package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	// Create isolated viper instance without loading user/project config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper() failed: %v", err)
	}

	if cfg.Database.Path != DefaultDatabasePath {
		t.Errorf("expected default database path %q, got %q", DefaultDatabasePath, cfg.Database.Path)
	}
	if cfg.Query.DefaultCollection != DefaultCollection {
		t.Errorf("expected default collection %q, got %q", DefaultCollection, cfg.Query.DefaultCollection)
	}
	if cfg.Query.RowLimit != DefaultRowLimit {
		t.Errorf("expected default row limit %d, got %d", DefaultRowLimit, cfg.Query.RowLimit)
	}
	if !cfg.Query.SortDesc || !cfg.Query.YearSortDesc {
		t.Error("expected descending sort defaults")
	}
	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "zero row limit is valid (unbounded)",
			config:  Config{Query: QueryConfig{RowLimit: 0}},
			wantErr: false,
		},
		{
			name:    "negative row limit is invalid",
			config:  Config{Query: QueryConfig{RowLimit: -1}},
			wantErr: true,
		},
		{
			name:    "negative max row limit is invalid",
			config:  Config{Query: QueryConfig{MaxRowLimit: -5}},
			wantErr: true,
		},
		{
			name:    "row limit above ceiling is invalid",
			config:  Config{Query: QueryConfig{RowLimit: 200, MaxRowLimit: 100}},
			wantErr: true,
		},
		{
			name:    "zero resolver cache is valid (disabled)",
			config:  Config{Resolver: ResolverConfig{CacheSize: 0}},
			wantErr: false,
		},
		{
			name:    "negative resolver cache is invalid",
			config:  Config{Resolver: ResolverConfig{CacheSize: -1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveRowLimit(t *testing.T) {
	cfg := Config{Query: QueryConfig{RowLimit: 500, MaxRowLimit: 1000}}

	tests := []struct {
		requested int
		expected  int
	}{
		{0, 500},
		{-3, 500},
		{20, 20},
		{5000, 1000},
	}
	for _, tt := range tests {
		if got := cfg.EffectiveRowLimit(tt.requested); got != tt.expected {
			t.Errorf("EffectiveRowLimit(%d) = %d, want %d", tt.requested, got, tt.expected)
		}
	}

	unbounded := Config{}
	if got := unbounded.EffectiveRowLimit(0); got != 0 {
		t.Errorf("expected unbounded limit 0, got %d", got)
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"database.path", DefaultDatabasePath},
		{"query.default_collection", DefaultCollection},
		{"query.row_limit", DefaultRowLimit},
		{"query.max_row_limit", DefaultMaxRowLimit},
		{"cache.enabled", true},
		{"resolver.cache_size", DefaultResolverCacheSize},
		{"log.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := v.Get(tt.key)
			if got != tt.expected {
				t.Errorf("default %s = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
[database]
path = "/data/pubmed.db"

[query]
default_collection = "PMC"
row_limit = 250
`
	if err := os.WriteFile(path, []byte(content), DefaultFilePermissions); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}
	if cfg.Database.Path != "/data/pubmed.db" {
		t.Errorf("expected file database path, got %q", cfg.Database.Path)
	}
	if cfg.Query.DefaultCollection != "PMC" {
		t.Errorf("expected collection PMC, got %q", cfg.Query.DefaultCollection)
	}
	if cfg.Query.RowLimit != 250 {
		t.Errorf("expected row limit 250, got %d", cfg.Query.RowLimit)
	}
	// Unset keys keep their defaults
	if cfg.Query.MaxRowLimit != DefaultMaxRowLimit {
		t.Errorf("expected default max row limit, got %d", cfg.Query.MaxRowLimit)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatal(err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		t.Fatal(err)
	}
	reloaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}
	if *reloaded != *cfg {
		t.Errorf("round trip mismatch: %s vs %s", reloaded, cfg)
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("found in parent", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "project", "nested", "deeper")
		os.MkdirAll(subDir, DefaultDirPermissions)
		os.WriteFile(filepath.Join(tmpDir, "project", ConfigFileName), []byte(""), DefaultFilePermissions)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(subDir)

		result := findProjectConfig()
		if result == "" {
			t.Fatal("expected to find config file")
		}
		if !filepath.IsAbs(result) {
			t.Error("expected absolute path")
		}
		if filepath.Base(result) != ConfigFileName {
			t.Errorf("expected %s, got %s", ConfigFileName, filepath.Base(result))
		}
	})

	t.Run("no config found", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "empty", "subdir")
		os.MkdirAll(subDir, DefaultDirPermissions)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(subDir)

		if result := findProjectConfig(); result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})
}

func TestLoad_EnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LITGRAPH_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("LITGRAPH_QUERY_ROW_LIMIT", "42")

	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)
	os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("expected env database path, got %q", cfg.Database.Path)
	}
	if cfg.Query.RowLimit != 42 {
		t.Errorf("expected env row limit 42, got %d", cfg.Query.RowLimit)
	}
}
