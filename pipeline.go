package salesbase

import (
	"sort"
)

// Stage is one step of an aggregation pipeline. The concrete variants are
// built with Match, GroupBy, GroupByComposite, SortBy and Limit; each
// consumes the previous stage's output sequence and produces a new one.
type Stage interface {
	validate() error
	apply(docs []Result) ([]Result, error)
}

// Pipeline is an ordered list of stages, executed strictly in order
type Pipeline []Stage

// Validate checks every stage eagerly. Run calls it before touching any
// document, so partial execution of an invalid pipeline is never observable.
func (p Pipeline) Validate() error {
	for i, stage := range p {
		if err := stage.validate(); err != nil {
			return WithContext(err, map[string]interface{}{"stage": i})
		}
	}
	return nil
}

// Run executes the pipeline over a snapshot of documents, producing a new
// result sequence. The input slice and its documents are never mutated.
func (p Pipeline) Run(docs []Result) ([]Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	current := docs
	for _, stage := range p {
		next, err := stage.apply(current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	if current == nil {
		current = []Result{}
	}
	return current, nil
}

// Match builds a stage that keeps only documents satisfying the filter
func Match(f Filter) Stage {
	return matchStage{filter: f}
}

type matchStage struct {
	filter Filter
}

func (s matchStage) validate() error {
	return s.filter.Validate()
}

func (s matchStage) apply(docs []Result) ([]Result, error) {
	out := make([]Result, 0, len(docs))
	for _, doc := range docs {
		ok, err := s.filter.Matches(doc)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// SortKey names one field to order by. Earlier keys take priority.
type SortKey struct {
	Field string
	Desc  bool
}

// SortBy builds a stage that stably orders documents by the given keys.
// Documents with equal keys keep their original relative order.
func SortBy(keys ...SortKey) Stage {
	return sortStage{keys: keys}
}

type sortStage struct {
	keys []SortKey
}

func (s sortStage) validate() error {
	if len(s.keys) == 0 {
		return WithContext(ErrInvalidPipeline, map[string]interface{}{
			"stage":  "sort",
			"reason": "at least one sort key is required",
		})
	}
	for _, k := range s.keys {
		if k.Field == "" {
			return WithContext(ErrInvalidPipeline, map[string]interface{}{
				"stage":  "sort",
				"reason": "empty sort field",
			})
		}
	}
	return nil
}

func (s sortStage) apply(docs []Result) ([]Result, error) {
	out := make([]Result, len(docs))
	copy(out, docs)

	sort.SliceStable(out, func(i, j int) bool {
		for _, key := range s.keys {
			order := sortCompare(out[i], out[j], key.Field)
			if order == 0 {
				continue
			}
			if key.Desc {
				return order > 0
			}
			return order < 0
		}
		return false
	})
	return out, nil
}

// sortCompare orders two documents by one field. A missing or null value
// sorts before any present value; incomparable values rank equal so
// stability decides.
func sortCompare(a, b Result, field string) int {
	av, aok := lookupPath(a, field)
	bv, bok := lookupPath(b, field)
	aok = aok && av != nil
	bok = bok && bv != nil

	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}

	order, comparable := compareValues(av, bv)
	if !comparable {
		return 0
	}
	return order
}

// Limit builds a stage that truncates the sequence to at most n documents
func Limit(n int) Stage {
	return limitStage{n: n}
}

type limitStage struct {
	n int
}

func (s limitStage) validate() error {
	if s.n <= 0 {
		return WithContext(ErrInvalidPipeline, map[string]interface{}{
			"stage":  "limit",
			"value":  s.n,
			"reason": "limit must be positive",
		})
	}
	return nil
}

func (s limitStage) apply(docs []Result) ([]Result, error) {
	if len(docs) <= s.n {
		return docs, nil
	}
	return docs[:s.n], nil
}
