package salesbase

import (
	"context"
	"encoding/json"
	"fmt"
)

// Package-level helper functions for convenience

// PutJSON is a package-level helper for storing JSON
func PutJSON(backend Backend, ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	return backend.Put(ctx, key, data)
}

// GetJSON is a package-level helper for retrieving JSON
func GetJSON(backend Backend, ctx context.Context, key string, dest interface{}) error {
	data, err := backend.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// KeyBuilder helps construct consistent storage keys.
// Eliminates error-prone fmt.Sprintf calls scattered throughout code.
//
// Example:
//
//	kb := KeyBuilder{Prefix: "orders", Suffix: ".json"}
//	key := kb.Key(orderID)  // Returns "orders/orderID.json"
type KeyBuilder struct {
	// Prefix is the namespace prefix (e.g., "orders")
	Prefix string

	// Suffix is the file extension (e.g., ".json")
	// Optional - defaults to empty string
	Suffix string
}

// Key constructs a storage key from an ID.
func (kb KeyBuilder) Key(id string) string {
	if kb.Suffix != "" {
		return fmt.Sprintf("%s/%s%s", kb.Prefix, id, kb.Suffix)
	}
	return fmt.Sprintf("%s/%s", kb.Prefix, id)
}

// Keys constructs multiple storage keys from IDs.
func (kb KeyBuilder) Keys(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = kb.Key(id)
	}
	return keys
}
