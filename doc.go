// Package salesbase stores sales orders as nested JSON documents and answers
// analytical questions over them through a small aggregation pipeline.
//
// It ingests flat CSV sales records, reshapes each row into a nested order
// document, persists documents in a keyed collection over a pluggable byte
// backend (memory, filesystem, Redis, S3), and evaluates multi-stage
// pipelines (match, group, sort, limit) over a snapshot of the collection.
//
// Basic usage:
//
//	backend := salesbase.NewMemoryBackend()
//	orders := salesbase.NewCollection(backend)
//	mgr := salesbase.NewManager(orders)
//
//	n, err := mgr.LoadCSV(ctx, file)
//	topRegions, err := mgr.SalesByRegion(ctx, 10)
//
// Pipelines can also be built directly:
//
//	p := salesbase.Pipeline{
//	    salesbase.Match(salesbase.Filter{"status": salesbase.Cond{Op: salesbase.OpNe, Value: "Cancelled"}}),
//	    salesbase.GroupBy("customer.shipping.state", map[string]salesbase.Accumulation{
//	        "total_sales": {Fn: "sum", Field: "financial.amount"},
//	        "order_count": {Fn: "count"},
//	    }),
//	    salesbase.SortBy(salesbase.SortKey{Field: "total_sales", Desc: true}),
//	    salesbase.Limit(10),
//	}
//	results, err := orders.Aggregate(ctx, p)
package salesbase
