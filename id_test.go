package salesbase

import (
	"sort"
	"testing"
)

func TestNewID(t *testing.T) {
	id := NewID()
	if !IsValidID(id) {
		t.Errorf("NewID produced invalid UUID: %q", id)
	}

	other := NewID()
	if id == other {
		t.Error("consecutive ids must differ")
	}
}

func TestNewID_TimeOrdered(t *testing.T) {
	// UUIDv7 ids generated in sequence sort lexicographically, which is what
	// keeps collection snapshots in insertion order
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = NewID()
	}

	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	for i := range ids {
		if ids[i] != sorted[i] {
			t.Fatalf("ids not time-ordered at index %d: %s vs %s", i, ids[i], sorted[i])
		}
	}
}

func TestParseID(t *testing.T) {
	id := NewID()
	parsed, err := ParseID(id)
	if err != nil {
		t.Fatalf("ParseID failed: %v", err)
	}
	if parsed.String() != id {
		t.Errorf("round trip changed id: %s vs %s", parsed.String(), id)
	}
}

func TestIsValidID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{NewID(), true},
		{"01890a5d-ac96-774b-b9aa-8d42fdd158c8", true},
		{"not-a-uuid", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidID(tt.in); got != tt.want {
			t.Errorf("IsValidID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
