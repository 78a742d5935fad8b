package salesbase

import (
	"time"
)

// Op is a comparison operator usable in a filter condition
type Op string

const (
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

func (op Op) valid() bool {
	switch op {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// Cond pairs an operator with the value to compare a field against
type Cond struct {
	Op    Op
	Value interface{}
}

// Filter is a predicate over documents: a mapping from dotted field path to
// either a literal value (equality), a single Cond, or a []Cond that must all
// hold (the idiom for range queries). Multiple paths are ANDed.
//
// A nil or empty Filter matches every document.
type Filter map[string]interface{}

// Matches reports whether doc satisfies the filter.
//
// Missing fields compare as absent: OpNe against a missing field is true,
// every other operator is false. The same rule applies to values whose types
// cannot be compared.
func (f Filter) Matches(doc Result) (bool, error) {
	for path, expected := range f {
		val, present := lookupPath(doc, path)

		conds, err := toConds(expected)
		if err != nil {
			return false, WithContext(err, map[string]interface{}{"field": path})
		}

		for _, cond := range conds {
			if !evalCond(val, present, cond) {
				return false, nil
			}
		}
	}
	return true, nil
}

// Validate checks every condition's operator without touching any document
func (f Filter) Validate() error {
	for path, expected := range f {
		if _, err := toConds(expected); err != nil {
			return WithContext(err, map[string]interface{}{"field": path})
		}
	}
	return nil
}

// toConds normalizes a filter value to its condition list form
func toConds(expected interface{}) ([]Cond, error) {
	var conds []Cond
	switch v := expected.(type) {
	case Cond:
		conds = []Cond{v}
	case []Cond:
		conds = v
	default:
		conds = []Cond{{Op: OpEq, Value: v}}
	}
	for _, c := range conds {
		if !c.Op.valid() {
			return nil, WithContext(ErrInvalidPipeline, map[string]interface{}{
				"op":     string(c.Op),
				"reason": "unknown comparison operator",
			})
		}
	}
	return conds, nil
}

func evalCond(val interface{}, present bool, cond Cond) bool {
	if !present || val == nil {
		return cond.Op == OpNe
	}

	order, comparable := compareValues(val, cond.Value)
	if !comparable {
		// Type mismatch behaves like an absent field
		return cond.Op == OpNe
	}

	switch cond.Op {
	case OpEq:
		return order == 0
	case OpNe:
		return order != 0
	case OpGt:
		return order > 0
	case OpGte:
		return order >= 0
	case OpLt:
		return order < 0
	case OpLte:
		return order <= 0
	}
	return false
}

// compareValues orders two values of the supported leaf types: numbers,
// strings, bools and timestamps. Stored documents pass through JSON, so
// numbers arrive as float64 and timestamps as RFC 3339 strings; filter
// values may be typed Go values. Returns (-1|0|1, true) when comparable.
func compareValues(a, b interface{}) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		return compareFloats(af, bf), true
	}

	if at, ok := toTime(a); ok {
		bt, ok := toTime(b)
		if ok {
			return at.Compare(bt), true
		}
		// fall through: a string that happens to look like a date can
		// still compare against another plain string
	}
	if bt, ok := toTime(b); ok {
		at, ok := toTime(a)
		if ok {
			return at.Compare(bt), true
		}
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// toTime recognizes time.Time values and their JSON string encoding
func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}
