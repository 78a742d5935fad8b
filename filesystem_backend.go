package salesbase

import (
	"context"
	"os"
	"path/filepath"
	"sort"
)

// FilesystemBackend implements Backend using local filesystem
type FilesystemBackend struct {
	basePath string
}

// NewFilesystemBackend creates a new filesystem backend rooted at basePath
func NewFilesystemBackend(basePath string) *FilesystemBackend {
	return &FilesystemBackend{basePath: basePath}
}

func (b *FilesystemBackend) getPath(key string) string {
	return filepath.Join(b.basePath, key)
}

func (b *FilesystemBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.getPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		if os.IsPermission(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return data, nil
}

func (b *FilesystemBackend) Put(ctx context.Context, key string, data []byte) error {
	path := b.getPath(key)
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		if os.IsPermission(err) {
			return ErrUnauthorized
		}
		return err
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		if os.IsPermission(err) {
			return ErrUnauthorized
		}
		return err
	}
	return nil
}

func (b *FilesystemBackend) Delete(ctx context.Context, key string) error {
	err := os.Remove(b.getPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		if os.IsPermission(err) {
			return ErrUnauthorized
		}
		return err
	}
	return nil
}

func (b *FilesystemBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(b.getPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *FilesystemBackend) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	searchPath := b.getPath(prefix)

	// Return empty list if prefix directory doesn't exist
	if _, err := os.Stat(searchPath); os.IsNotExist(err) {
		return keys, nil
	}

	err := filepath.Walk(searchPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			relPath, err := filepath.Rel(b.basePath, path)
			if err != nil {
				return err
			}
			// Convert to forward slashes for consistency with S3
			keys = append(keys, filepath.ToSlash(relPath))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

func (b *FilesystemBackend) Ping(ctx context.Context) error {
	if _, err := os.Stat(b.basePath); err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(b.basePath, DefaultDirPermissions)
		}
		return WithContext(ErrStoreUnavailable, map[string]interface{}{
			"path":   b.basePath,
			"reason": err.Error(),
		})
	}
	return nil
}

func (b *FilesystemBackend) Close() error {
	return nil
}
