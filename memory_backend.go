package salesbase

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend implements Backend with an in-process map. It is the default
// for tests and demos, and doubles as the reference implementation of the
// Backend contract.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[string][]byte),
	}
}

func (b *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Copy so callers can't mutate stored bytes
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (b *MemoryBackend) Put(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	b.data[key] = stored
	return nil
}

func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.data[key]; !ok {
		return ErrNotFound
	}
	delete(b.data, key)
	return nil
}

func (b *MemoryBackend) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.data[key]
	return ok, nil
}

func (b *MemoryBackend) List(ctx context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	for key := range b.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *MemoryBackend) Ping(ctx context.Context) error {
	return nil
}

func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = make(map[string][]byte)
	return nil
}
