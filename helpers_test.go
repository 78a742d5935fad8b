package salesbase

import (
	"context"
	"reflect"
	"testing"
)

func TestKeyBuilder(t *testing.T) {
	tests := []struct {
		name string
		kb   KeyBuilder
		id   string
		want string
	}{
		{"with suffix", KeyBuilder{Prefix: "orders", Suffix: ".json"}, "abc", "orders/abc.json"},
		{"without suffix", KeyBuilder{Prefix: "orders"}, "abc", "orders/abc"},
		{"custom prefix", KeyBuilder{Prefix: "amazon_orders", Suffix: ".json"}, "x-1", "amazon_orders/x-1.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kb.Key(tt.id); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestKeyBuilder_Keys(t *testing.T) {
	kb := KeyBuilder{Prefix: "orders", Suffix: ".json"}
	got := kb.Keys([]string{"a", "b"})
	want := []string{"orders/a.json", "orders/b.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
}

func TestPutGetJSON(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	in := map[string]interface{}{"order_id": "A-1", "amount": 500.0}
	if err := PutJSON(backend, ctx, "orders/a.json", in); err != nil {
		t.Fatalf("PutJSON failed: %v", err)
	}

	var out map[string]interface{}
	if err := GetJSON(backend, ctx, "orders/a.json", &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip changed value: %v vs %v", in, out)
	}
}

func TestGetJSON_Missing(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	var out map[string]interface{}
	err := GetJSON(backend, ctx, "missing.json", &out)
	if !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
