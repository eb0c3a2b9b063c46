// Package config loads the CLI configuration from catalog.yml.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config represents the catalog CLI configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Search  SearchConfig  `mapstructure:"search"`
}

// CatalogConfig says where metadata and payloads come from
type CatalogConfig struct {
	// Dir is a local catalog directory with payload files.
	Dir string `mapstructure:"dir"`
	// IndexFile is a JSON or YAML catalog index document.
	IndexFile string `mapstructure:"index_file"`
	// IndexDB is a SQLite catalog index database. Takes precedence
	// over IndexFile when both are set.
	IndexDB string `mapstructure:"index_db"`
	// RemoteURL is the remote catalog root for payload downloads.
	// Used when Dir is empty.
	RemoteURL string `mapstructure:"remote_url"`
}

// CacheConfig configures payload caching
type CacheConfig struct {
	// Backend is one of "none", "memory" or "redis".
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig configures the redis cache backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SearchConfig configures the optional remote search backend
type SearchConfig struct {
	URL    string `mapstructure:"url"`
	Index  string `mapstructure:"index"`
	APIKey string `mapstructure:"api_key"`
}

// Load loads the configuration from catalog.yml or catalog.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("search.index", "catalog")

	v.SetConfigName("catalog")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	v.SetEnvPrefix("catalog")
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.Cache.Backend {
	case "", "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be one of none, memory, redis; got %q", cfg.Cache.Backend)
	}

	if cfg.Catalog.Dir != "" && cfg.Catalog.RemoteURL != "" {
		return fmt.Errorf("catalog.dir and catalog.remote_url are mutually exclusive")
	}

	if cfg.Search.URL != "" && cfg.Search.Index == "" {
		return fmt.Errorf("search.index is required when search.url is set")
	}

	return nil
}
