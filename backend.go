package salesbase

import (
	"context"
)

// Backend is the byte-oriented storage a Collection sits on. Implementations
// exist for memory, local filesystem, Redis and S3; the collection layer
// never knows which one it has.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// List returns all keys under the prefix in lexicographic order.
	// Collections rely on that ordering for a stable snapshot.
	List(ctx context.Context, prefix string) ([]string, error)

	// Health check
	Ping(ctx context.Context) error

	// Resource cleanup
	Close() error
}

// BackendConfig holds configuration for any backend
type BackendConfig struct {
	Type     string `yaml:"type"`               // "memory", "filesystem", "redis", "s3"
	Path     string `yaml:"path,omitempty"`     // base directory (filesystem)
	Bucket   string `yaml:"bucket,omitempty"`   // S3 bucket
	Region   string `yaml:"region,omitempty"`   // AWS region (S3 only)
	Endpoint string `yaml:"endpoint,omitempty"` // custom endpoint (S3-compatible services)
	Redis    string `yaml:"redis,omitempty"`    // Redis address
}

// Validate checks if the BackendConfig is valid
func (c BackendConfig) Validate() error {
	switch c.Type {
	case "memory":
		// No additional configuration needed
	case "filesystem":
		if c.Path == "" {
			return WithContext(ErrInvalidConfig, map[string]interface{}{
				"field":  "Path",
				"reason": "filesystem backend requires a base path",
			})
		}
	case "redis":
		// Address falls back to REDIS_ADDR / localhost
	case "s3":
		if c.Bucket == "" {
			return WithContext(ErrInvalidConfig, map[string]interface{}{
				"field":  "Bucket",
				"reason": "S3 backend requires a bucket",
			})
		}
		if c.Region == "" && c.Endpoint == "" {
			return WithContext(ErrInvalidConfig, map[string]interface{}{
				"field":  "Region/Endpoint",
				"reason": "S3 backend requires either Region or Endpoint",
			})
		}
	case "":
		return WithContext(ErrInvalidConfig, map[string]interface{}{
			"field":  "Type",
			"reason": "backend type is required",
		})
	default:
		return WithContext(ErrInvalidConfig, map[string]interface{}{
			"field":  "Type",
			"value":  c.Type,
			"reason": "unsupported backend type",
		})
	}
	return nil
}
