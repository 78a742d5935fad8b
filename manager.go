package salesbase

import (
	"context"
	"io"
	"os"
	"time"
)

// Manager wraps a DocumentStore with business-key semantics: callers work
// with order ids, never physical storage keys. It also owns CSV ingestion
// and the canned analytical queries.
type Manager struct {
	store   DocumentStore
	logger  Logger
	metrics Metrics
}

// NewManager creates a manager with no-op logger and metrics
func NewManager(store DocumentStore) *Manager {
	return &Manager{
		store:   store,
		logger:  &NoOpLogger{},
		metrics: &NoOpMetrics{},
	}
}

// NewManagerWithObservability creates a manager with logging and metrics
func NewManagerWithObservability(store DocumentStore, logger Logger, metrics Metrics) *Manager {
	return &Manager{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// CreateOrder inserts one order document and returns its generated physical
// id. No uniqueness check on order_id is performed at this layer.
func (m *Manager) CreateOrder(ctx context.Context, doc Document) (string, error) {
	return m.store.InsertOne(ctx, doc)
}

// ReadOrder returns the order with the given business key. A miss returns
// ErrNotFound, which callers should treat as a normal outcome; when
// duplicates exist the store's own tie-break picks one.
func (m *Manager) ReadOrder(ctx context.Context, orderID string) (*Document, error) {
	return m.store.FindOne(ctx, Filter{"order_id": orderID})
}

// UpdateOrder merges the named fields into the order with the given business
// key and returns the number of documents whose content actually changed.
// Patch keys are dotted field paths ("status", "financial.amount").
// A non-existent order_id yields 0 and inserts nothing.
func (m *Manager) UpdateOrder(ctx context.Context, orderID string, fields map[string]interface{}) (int, error) {
	res, err := m.store.UpdateOne(ctx, Filter{"order_id": orderID}, fields)
	if err != nil {
		return 0, err
	}
	m.logger.Debug("order updated", "order_id", orderID, "matched", res.Matched, "modified", res.Modified)
	return res.Modified, nil
}

// DeleteOrder removes every document with the given business key and returns
// how many were removed
func (m *Manager) DeleteOrder(ctx context.Context, orderID string) (int, error) {
	return m.store.DeleteMany(ctx, Filter{"order_id": orderID})
}

// Clear removes every document in the collection; used before a full reload
func (m *Manager) Clear(ctx context.Context) (int, error) {
	deleted, err := m.store.DeleteMany(ctx, nil)
	if err != nil {
		return 0, err
	}
	m.logger.Info("collection cleared", "deleted", deleted)
	return deleted, nil
}

// Count returns the number of documents in the collection
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.store.Count(ctx, nil)
}

// LoadCSV ingests a sales export: every row is mapped to a document first,
// then the whole batch is inserted. Ingestion is all-or-nothing; a bad row
// or a store failure means zero insertions, never a partial count.
func (m *Manager) LoadCSV(ctx context.Context, r io.Reader) (int, error) {
	start := time.Now()

	rows, err := ReadRows(r)
	if err != nil {
		m.metrics.Increment(MetricIngestErrors)
		return 0, err
	}

	docs, err := MapRows(rows)
	if err != nil {
		m.metrics.Increment(MetricIngestErrors)
		m.logger.Error("ingestion aborted", "rows", len(rows), "error", err)
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids, err := m.store.InsertMany(ctx, docs)
	if err != nil {
		m.metrics.Increment(MetricIngestErrors)
		return 0, err
	}

	duration := time.Since(start)
	for range ids {
		m.metrics.Increment(MetricIngestRows)
	}
	m.metrics.Timing(MetricIngestDuration, duration)
	m.logger.Info("ingestion complete", "documents", len(ids), "duration_ms", duration.Milliseconds())
	return len(ids), nil
}

// LoadCSVFile ingests a sales export from disk
func (m *Manager) LoadCSVFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		m.metrics.Increment(MetricIngestErrors)
		return 0, WithContext(ErrBadRow, map[string]interface{}{
			"path":   path,
			"reason": err.Error(),
		})
	}
	defer f.Close()

	return m.LoadCSV(ctx, f)
}

// OrdersInDateRange returns orders dated within [start, end] inclusive,
// in collection order
func (m *Manager) OrdersInDateRange(ctx context.Context, start, end time.Time) ([]Document, error) {
	return m.store.Find(ctx, Filter{
		"date": []Cond{
			{Op: OpGte, Value: start},
			{Op: OpLte, Value: end},
		},
	})
}

// SalesByRegion aggregates non-cancelled orders by shipping state: total and
// average order value, order count and unit count, top regions first
func (m *Manager) SalesByRegion(ctx context.Context, limit int) ([]Result, error) {
	return m.store.Aggregate(ctx, Pipeline{
		Match(Filter{"status": Cond{Op: OpNe, Value: "Cancelled"}}),
		GroupBy("customer.shipping.state", map[string]Accumulation{
			"total_sales":     {Fn: "sum", Field: "financial.amount"},
			"order_count":     {Fn: "count"},
			"avg_order_value": {Fn: "avg", Field: "financial.amount"},
			"total_quantity":  {Fn: "sum", Field: "product.quantity"},
		}),
		SortBy(SortKey{Field: "total_sales", Desc: true}),
		Limit(limit),
	})
}

// SalesByCategory aggregates revenue-bearing orders by product category,
// highest revenue first
func (m *Manager) SalesByCategory(ctx context.Context) ([]Result, error) {
	return m.store.Aggregate(ctx, Pipeline{
		Match(Filter{"financial.amount": Cond{Op: OpGt, Value: 0}}),
		GroupBy("product.category", map[string]Accumulation{
			"total_revenue": {Fn: "sum", Field: "financial.amount"},
			"total_orders":  {Fn: "count"},
			"total_units":   {Fn: "sum", Field: "product.quantity"},
			"avg_price":     {Fn: "avg", Field: "financial.amount"},
		}),
		SortBy(SortKey{Field: "total_revenue", Desc: true}),
	})
}

// MonthlySalesTrend aggregates revenue-bearing orders by calendar month,
// in chronological order
func (m *Manager) MonthlySalesTrend(ctx context.Context) ([]Result, error) {
	return m.store.Aggregate(ctx, Pipeline{
		Match(Filter{"financial.amount": Cond{Op: OpGt, Value: 0}}),
		GroupByComposite(map[string]string{
			"year":       "date_info.year",
			"month":      "date_info.month",
			"month_name": "date_info.month_name",
		}, map[string]Accumulation{
			"total_sales": {Fn: "sum", Field: "financial.amount"},
			"order_count": {Fn: "count"},
		}),
		SortBy(
			SortKey{Field: "_id.year"},
			SortKey{Field: "_id.month"},
		),
	})
}

// B2BByCategory aggregates revenue-bearing orders by category and customer
// type, B2B before B2C within each category
func (m *Manager) B2BByCategory(ctx context.Context) ([]Result, error) {
	return m.store.Aggregate(ctx, Pipeline{
		Match(Filter{"financial.amount": Cond{Op: OpGt, Value: 0}}),
		GroupByComposite(map[string]string{
			"category": "product.category",
			"b2b":      "customer.b2b",
		}, map[string]Accumulation{
			"total_revenue": {Fn: "sum", Field: "financial.amount"},
			"order_count":   {Fn: "count"},
		}),
		SortBy(
			SortKey{Field: "_id.category"},
			SortKey{Field: "_id.b2b", Desc: true},
		),
	})
}
