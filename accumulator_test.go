package salesbase

import (
	"math"
	"testing"
)

func TestAccumulators(t *testing.T) {
	values := []float64{500, 300, 400}

	tests := []struct {
		name string
		want float64
	}{
		{"sum", 1200},
		{"count", 3},
		{"avg", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := lookupAccumulator(tt.name)
			if !ok {
				t.Fatalf("accumulator %q not registered", tt.name)
			}
			if got := fn(values); got != tt.want {
				t.Errorf("%s(%v) = %v, want %v", tt.name, values, got, tt.want)
			}
		})
	}
}

func TestAccumulators_Empty(t *testing.T) {
	for _, name := range []string{"sum", "count", "avg"} {
		fn, _ := lookupAccumulator(name)
		got := fn(nil)
		if got != 0 {
			t.Errorf("%s(nil) = %v, want 0", name, got)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("%s(nil) must not divide by zero", name)
		}
	}
}

func TestAccumulators_CountIgnoresValues(t *testing.T) {
	fn, _ := lookupAccumulator("count")
	if got := fn([]float64{0, 0, 0, 0}); got != 4 {
		t.Errorf("count of four zero values = %v, want 4", got)
	}
}

func TestRegisterAccumulator(t *testing.T) {
	RegisterAccumulator("max", func(values []float64) float64 {
		var max float64
		for i, v := range values {
			if i == 0 || v > max {
				max = v
			}
		}
		return max
	})
	defer delete(accumulators, "max")

	out, err := Pipeline{
		GroupBy("product.category", map[string]Accumulation{
			"peak": {Fn: "max", Field: "financial.amount"},
		}),
	}.Run([]Result{
		orderDoc("Kurta", 300),
		orderDoc("Kurta", 900),
		orderDoc("Kurta", 500),
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if out[0]["peak"].(float64) != 900 {
		t.Errorf("peak = %v, want 900", out[0]["peak"])
	}
}

func TestLookupAccumulator_Unknown(t *testing.T) {
	if _, ok := lookupAccumulator("median"); ok {
		t.Error("median should not be registered")
	}
}
