package salesbase

import (
	"encoding/json"
)

// Accumulation names the aggregate function and source field computed for
// each group. Field is ignored by "count", which counts member documents.
type Accumulation struct {
	Fn    string
	Field string
}

// GroupBy builds a stage that partitions documents by the value at keyPath
// and computes the named accumulations per group. Each result document
// carries the group key under "_id" plus one field per accumulation.
//
// Documents missing the key form a single group keyed by null, not one group
// per distinct absence.
func GroupBy(keyPath string, accums map[string]Accumulation) Stage {
	return groupStage{keyPath: keyPath, accums: accums}
}

// GroupByComposite builds a group stage with a composite key: "_id" becomes
// an object with one named slot per dotted path. Missing values occupy their
// slot as null.
func GroupByComposite(keyPaths map[string]string, accums map[string]Accumulation) Stage {
	return groupStage{keyPaths: keyPaths, accums: accums}
}

type groupStage struct {
	keyPath  string            // single-path key; empty when composite
	keyPaths map[string]string // composite key; nil when single-path
	accums   map[string]Accumulation
}

func (s groupStage) validate() error {
	if s.keyPath == "" && len(s.keyPaths) == 0 {
		return WithContext(ErrInvalidPipeline, map[string]interface{}{
			"stage":  "group",
			"reason": "group key is required",
		})
	}
	for name, path := range s.keyPaths {
		if path == "" {
			return WithContext(ErrInvalidPipeline, map[string]interface{}{
				"stage":  "group",
				"key":    name,
				"reason": "empty key path",
			})
		}
	}
	for name, acc := range s.accums {
		if _, ok := lookupAccumulator(acc.Fn); !ok {
			return WithContext(ErrInvalidPipeline, map[string]interface{}{
				"stage":       "group",
				"accumulator": name,
				"fn":          acc.Fn,
				"reason":      "unknown accumulator",
			})
		}
		if acc.Fn != "count" && acc.Field == "" {
			return WithContext(ErrInvalidPipeline, map[string]interface{}{
				"stage":       "group",
				"accumulator": name,
				"fn":          acc.Fn,
				"reason":      "source field is required",
			})
		}
	}
	return nil
}

// group collects one partition's key and member values in arrival order
type group struct {
	key    interface{}
	values map[string][]float64 // accumulation name -> per-document values
}

func (s groupStage) apply(docs []Result) ([]Result, error) {
	groups := make(map[string]*group)
	var order []string // first-seen group order, for deterministic output

	for _, doc := range docs {
		key := s.keyValue(doc)
		id, err := groupIdentity(key)
		if err != nil {
			return nil, err
		}

		g, ok := groups[id]
		if !ok {
			g = &group{key: key, values: make(map[string][]float64)}
			groups[id] = g
			order = append(order, id)
		}

		for name, acc := range s.accums {
			// A missing or non-numeric source value contributes 0,
			// and still counts toward avg's denominator.
			var v float64
			if acc.Field != "" {
				if raw, ok := lookupPath(doc, acc.Field); ok {
					if f, ok := toFloat(raw); ok {
						v = f
					}
				}
			}
			g.values[name] = append(g.values[name], v)
		}
	}

	out := make([]Result, 0, len(groups))
	for _, id := range order {
		g := groups[id]
		result := Result{"_id": g.key}
		for name, acc := range s.accums {
			fn, _ := lookupAccumulator(acc.Fn)
			result[name] = fn(g.values[name])
		}
		out = append(out, result)
	}
	return out, nil
}

// keyValue extracts the group key from one document: a scalar for a
// single-path key, an object for a composite key. Missing values become nil.
func (s groupStage) keyValue(doc Result) interface{} {
	if s.keyPath != "" {
		v, ok := lookupPath(doc, s.keyPath)
		if !ok {
			return nil
		}
		return v
	}

	key := make(map[string]interface{}, len(s.keyPaths))
	for name, path := range s.keyPaths {
		v, ok := lookupPath(doc, path)
		if !ok {
			v = nil
		}
		key[name] = v
	}
	return key
}

// groupIdentity derives the partition identity of a key value. JSON encoding
// gives composite keys a canonical form (object keys marshal sorted).
func groupIdentity(key interface{}) (string, error) {
	data, err := json.Marshal(key)
	if err != nil {
		return "", WithContext(ErrInvalidData, map[string]interface{}{
			"reason": "unencodable group key",
		})
	}
	return string(data), nil
}
