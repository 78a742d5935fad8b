package salesbase

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// DocumentStore is the keyed document collection contract the CRUD manager
// and analytics run against. Collection implements it over a Backend; tests
// may substitute any fake honoring the same semantics.
type DocumentStore interface {
	InsertOne(ctx context.Context, doc Document) (string, error)
	InsertMany(ctx context.Context, docs []Document) ([]string, error)
	FindOne(ctx context.Context, filter Filter) (*Document, error)
	Find(ctx context.Context, filter Filter) ([]Document, error)
	Count(ctx context.Context, filter Filter) (int, error)
	UpdateOne(ctx context.Context, filter Filter, patch map[string]interface{}) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter Filter) (int, error)
	DeleteMany(ctx context.Context, filter Filter) (int, error)
	Aggregate(ctx context.Context, p Pipeline) ([]Result, error)
}

// UpdateResult reports how many documents an update matched and how many
// actually changed content. A matched-but-identical update reports Modified 0.
type UpdateResult struct {
	Matched  int
	Modified int
}

// Collection stores each document as one JSON object under a generated
// time-ordered key. All reads take a point-in-time snapshot of the backend's
// key listing; pipeline runs never observe mutations made after their start.
type Collection struct {
	backend Backend
	kb      KeyBuilder
	logger  Logger
	metrics Metrics
}

// NewCollection creates a collection with the default "orders" prefix,
// no-op logger and metrics
func NewCollection(backend Backend) *Collection {
	return &Collection{
		backend: backend,
		kb:      KeyBuilder{Prefix: DefaultCollectionPrefix, Suffix: ".json"},
		logger:  &NoOpLogger{},
		metrics: &NoOpMetrics{},
	}
}

// NewCollectionWithPrefix creates a collection under a custom key prefix
func NewCollectionWithPrefix(backend Backend, prefix string) *Collection {
	c := NewCollection(backend)
	c.kb = KeyBuilder{Prefix: prefix, Suffix: ".json"}
	return c
}

// SetLogger updates the logger for this collection
func (c *Collection) SetLogger(logger Logger) {
	c.logger = logger
}

// SetMetrics updates the metrics collector for this collection
func (c *Collection) SetMetrics(metrics Metrics) {
	c.metrics = metrics
}

// InsertOne appends one document to the collection and returns its generated
// physical id. No uniqueness check is made on order_id.
func (c *Collection) InsertOne(ctx context.Context, doc Document) (string, error) {
	start := time.Now()

	id := NewID()
	data, err := json.Marshal(doc)
	if err != nil {
		c.metrics.Increment(MetricInsertError)
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := c.backend.Put(ctx, c.kb.Key(id), data); err != nil {
		c.metrics.Increment(MetricInsertError)
		return "", err
	}

	c.metrics.Increment(MetricInsertSuccess)
	c.metrics.Timing(MetricInsertDuration, time.Since(start))
	c.logger.Debug("document inserted", "id", id, "order_id", doc.OrderID)
	return id, nil
}

// InsertMany appends a batch of documents. The batch is all-or-nothing:
// if any insert fails, documents already written are removed (best effort)
// before the error is returned, so a partial count is never observable.
func (c *Collection) InsertMany(ctx context.Context, docs []Document) ([]string, error) {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id, err := c.InsertOne(ctx, doc)
		if err != nil {
			for _, inserted := range ids {
				if delErr := c.backend.Delete(ctx, c.kb.Key(inserted)); delErr != nil {
					c.logger.Warn("batch rollback failed", "id", inserted, "error", delErr)
				}
			}
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FindOne returns the first document matching the filter in key order.
// Returns ErrNotFound when nothing matches; that is a normal outcome, not a
// fetch failure.
func (c *Collection) FindOne(ctx context.Context, filter Filter) (*Document, error) {
	start := time.Now()

	keys, err := c.backend.List(ctx, c.kb.Prefix+"/")
	if err != nil {
		c.metrics.Increment(MetricFindError)
		return nil, err
	}

	for _, key := range keys {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		doc, raw, err := c.getDocument(ctx, key)
		if err != nil {
			c.metrics.Increment(MetricFindError)
			return nil, err
		}

		ok, err := filter.Matches(raw)
		if err != nil {
			return nil, err
		}
		if ok {
			c.metrics.Increment(MetricFindSuccess)
			c.metrics.Timing(MetricFindDuration, time.Since(start))
			return doc, nil
		}
	}

	return nil, ErrNotFound
}

// Find returns every document matching the filter, in key order.
// A nil filter returns the whole collection.
func (c *Collection) Find(ctx context.Context, filter Filter) ([]Document, error) {
	start := time.Now()

	keys, err := c.backend.List(ctx, c.kb.Prefix+"/")
	if err != nil {
		c.metrics.Increment(MetricFindError)
		return nil, err
	}

	var results []Document
	for _, key := range keys {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		doc, raw, err := c.getDocument(ctx, key)
		if err != nil {
			c.metrics.Increment(MetricFindError)
			return nil, err
		}

		ok, err := filter.Matches(raw)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, *doc)
		}
	}

	c.metrics.Increment(MetricFindSuccess)
	c.metrics.Timing(MetricFindDuration, time.Since(start))
	c.logger.Debug("find executed", "prefix", c.kb.Prefix, "results", len(results))
	return results, nil
}

// Count returns the number of documents matching the filter
func (c *Collection) Count(ctx context.Context, filter Filter) (int, error) {
	docs, err := c.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// UpdateOne merges the patch into the first document matching the filter.
// Patch keys are dotted field paths; only named fields change, everything
// else is preserved. Modified reports actual content change, not matches.
func (c *Collection) UpdateOne(ctx context.Context, filter Filter, patch map[string]interface{}) (UpdateResult, error) {
	start := time.Now()

	keys, err := c.backend.List(ctx, c.kb.Prefix+"/")
	if err != nil {
		c.metrics.Increment(MetricUpdateError)
		return UpdateResult{}, err
	}

	for _, key := range keys {
		_, raw, err := c.getDocument(ctx, key)
		if err != nil {
			c.metrics.Increment(MetricUpdateError)
			return UpdateResult{}, err
		}

		ok, err := filter.Matches(raw)
		if err != nil {
			return UpdateResult{}, err
		}
		if !ok {
			continue
		}

		merged, err := mergeFields(raw, patch)
		if err != nil {
			c.metrics.Increment(MetricUpdateError)
			return UpdateResult{}, err
		}

		if reflect.DeepEqual(raw, merged) {
			// Matched but content is identical
			c.metrics.Increment(MetricUpdateSuccess)
			return UpdateResult{Matched: 1, Modified: 0}, nil
		}

		data, err := json.Marshal(merged)
		if err != nil {
			c.metrics.Increment(MetricUpdateError)
			return UpdateResult{}, fmt.Errorf("failed to marshal merged document: %w", err)
		}
		if err := c.backend.Put(ctx, key, data); err != nil {
			c.metrics.Increment(MetricUpdateError)
			return UpdateResult{}, err
		}

		c.metrics.Increment(MetricUpdateSuccess)
		c.metrics.Timing(MetricUpdateDuration, time.Since(start))
		c.logger.Debug("document updated", "key", key, "fields", len(patch))
		return UpdateResult{Matched: 1, Modified: 1}, nil
	}

	return UpdateResult{}, nil
}

// DeleteOne removes the first document matching the filter, returning the
// number removed (0 or 1)
func (c *Collection) DeleteOne(ctx context.Context, filter Filter) (int, error) {
	return c.delete(ctx, filter, 1)
}

// DeleteMany removes every document matching the filter. An empty filter
// clears the whole collection.
func (c *Collection) DeleteMany(ctx context.Context, filter Filter) (int, error) {
	return c.delete(ctx, filter, -1)
}

func (c *Collection) delete(ctx context.Context, filter Filter, limit int) (int, error) {
	start := time.Now()

	keys, err := c.backend.List(ctx, c.kb.Prefix+"/")
	if err != nil {
		c.metrics.Increment(MetricDeleteError)
		return 0, err
	}

	deleted := 0
	for _, key := range keys {
		if limit > 0 && deleted >= limit {
			break
		}

		_, raw, err := c.getDocument(ctx, key)
		if err != nil {
			c.metrics.Increment(MetricDeleteError)
			return deleted, err
		}

		ok, err := filter.Matches(raw)
		if err != nil {
			return deleted, err
		}
		if !ok {
			continue
		}

		if err := c.backend.Delete(ctx, key); err != nil {
			c.metrics.Increment(MetricDeleteError)
			return deleted, err
		}
		deleted++
	}

	c.metrics.Increment(MetricDeleteSuccess)
	c.metrics.Timing(MetricDeleteDuration, time.Since(start))
	c.logger.Debug("delete executed", "prefix", c.kb.Prefix, "deleted", deleted)
	return deleted, nil
}

// Aggregate validates the pipeline, snapshots the collection, and runs the
// stages over the snapshot. Validation happens before any document is read,
// so an invalid pipeline never observes partial execution.
func (c *Collection) Aggregate(ctx context.Context, p Pipeline) ([]Result, error) {
	if err := p.Validate(); err != nil {
		c.metrics.Increment(MetricPipelineErrors)
		return nil, err
	}

	start := time.Now()

	snapshot, err := c.snapshot(ctx)
	if err != nil {
		c.metrics.Increment(MetricPipelineErrors)
		return nil, err
	}

	results, err := p.Run(snapshot)
	if err != nil {
		c.metrics.Increment(MetricPipelineErrors)
		return nil, err
	}

	duration := time.Since(start)
	c.metrics.Increment(MetricPipelineRuns)
	c.metrics.Timing(MetricPipelineDuration, duration)
	c.metrics.Histogram(MetricPipelineResults, float64(len(results)))
	c.logger.Debug("pipeline executed",
		"stages", len(p),
		"input", len(snapshot),
		"results", len(results),
		"duration_ms", duration.Milliseconds(),
	)
	return results, nil
}

// snapshot reads the whole collection into generic map form, in key order
func (c *Collection) snapshot(ctx context.Context) ([]Result, error) {
	keys, err := c.backend.List(ctx, c.kb.Prefix+"/")
	if err != nil {
		return nil, err
	}

	docs := make([]Result, 0, len(keys))
	for _, key := range keys {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		_, raw, err := c.getDocument(ctx, key)
		if err != nil {
			return nil, err
		}
		docs = append(docs, raw)
	}
	return docs, nil
}

// getDocument loads one stored document in both typed and map form
func (c *Collection) getDocument(ctx context.Context, key string) (*Document, Result, error) {
	data, err := c.backend.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, WithContext(ErrInvalidData, map[string]interface{}{
			"key":    key,
			"reason": err.Error(),
		})
	}
	var raw Result
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, WithContext(ErrInvalidData, map[string]interface{}{
			"key":    key,
			"reason": err.Error(),
		})
	}
	return &doc, raw, nil
}

// mergeFields applies a dotted-path patch to a document map, returning a new
// map. Patch values pass through JSON so stored and patched values compare
// under the same type system.
func mergeFields(doc Result, patch map[string]interface{}) (Result, error) {
	// Deep copy via JSON round trip
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var merged Result
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}

	for path, value := range patch {
		normalized, err := normalizeValue(value)
		if err != nil {
			return nil, WithContext(ErrInvalidData, map[string]interface{}{
				"field":  path,
				"reason": err.Error(),
			})
		}
		setPath(merged, path, normalized)
	}
	return merged, nil
}

// normalizeValue converts a Go value to its JSON-decoded form
func normalizeValue(value interface{}) (interface{}, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var normalized interface{}
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}
