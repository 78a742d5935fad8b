package salesbase

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// Configuration constants for salesbase operations
const (
	// File backend configuration
	DefaultFilePermissions = 0644
	DefaultDirPermissions  = 0755

	// Default collection namespace for order documents
	DefaultCollectionPrefix = "orders"
)

// Config is the top-level configuration, typically loaded from a YAML file
type Config struct {
	Backend BackendConfig `yaml:"backend"`

	// CSVPath is the sales export to ingest on startup (optional)
	CSVPath string `yaml:"csv_path,omitempty"`

	// Collection overrides the key prefix for order documents
	Collection string `yaml:"collection,omitempty"`
}

// DefaultConfig is the zero-setup configuration: an in-memory backend with
// the standard collection prefix
func DefaultConfig() Config {
	return Config{
		Backend:    BackendConfig{Type: "memory"},
		Collection: DefaultCollectionPrefix,
	}
}

// LoadConfig reads a YAML configuration file. Missing fields keep their
// defaults; an unreadable or malformed file is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, WithContext(ErrInvalidConfig, map[string]interface{}{
			"path":   path,
			"reason": err.Error(),
		})
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, WithContext(ErrInvalidConfig, map[string]interface{}{
			"path":   path,
			"reason": err.Error(),
		})
	}

	if cfg.Collection == "" {
		cfg.Collection = DefaultCollectionPrefix
	}
	if err := cfg.Backend.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewBackendFromConfig constructs and health-checks the configured backend.
// A failed health check surfaces as ErrStoreUnavailable: the run aborts
// rather than retrying here.
func NewBackendFromConfig(ctx context.Context, cfg BackendConfig) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var backend Backend
	switch cfg.Type {
	case "memory":
		backend = NewMemoryBackend()
	case "filesystem":
		backend = NewFilesystemBackend(cfg.Path)
	case "redis":
		client := redis.NewClient(RedisOptionsWithOverrides(cfg.Redis, "", 0, 0))
		backend = NewRedisBackendWithOwnedClient(client)
	case "s3":
		s3b, err := NewS3BackendFromConfig(ctx, cfg,
			os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"))
		if err != nil {
			return nil, err
		}
		backend = s3b
	}

	if err := backend.Ping(ctx); err != nil {
		if closeErr := backend.Close(); closeErr != nil {
			// Best-effort cleanup failed - ignore
		}
		return nil, err
	}
	return backend, nil
}
