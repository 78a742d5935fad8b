// salesbase - sales order document store and analytics
//
// Loads a cleaned sales CSV export into a document collection, demonstrates
// CRUD by business key, and runs the standard analytical queries.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/adrianmcphee/salesbase"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional)")
		csvPath    = flag.String("csv", "Cleaned_Amazon_Sale_Report.csv", "Sales CSV export to ingest")
		backend    = flag.String("backend", "", "Backend override: memory, filesystem, redis, s3")
		dataDir    = flag.String("data", "./data", "Data directory (filesystem backend)")
		top        = flag.Int("top", 10, "Number of regions in the regional report")
	)
	flag.Parse()

	logger, err := salesbase.NewProductionZapLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*configPath, *csvPath, *backend, *dataDir, *top, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, csvPath, backendType, dataDir string, top int, logger *salesbase.ZapLogger) error {
	ctx := context.Background()

	cfg := salesbase.DefaultConfig()
	if configPath != "" {
		loaded, err := salesbase.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if backendType != "" {
		cfg.Backend.Type = backendType
	}
	if cfg.Backend.Type == "filesystem" && cfg.Backend.Path == "" {
		cfg.Backend.Path = dataDir
	}
	if csvPath != "" {
		cfg.CSVPath = csvPath
	}

	backend, err := salesbase.NewBackendFromConfig(ctx, cfg.Backend)
	if err != nil {
		return err
	}
	defer backend.Close()

	orders := salesbase.NewCollectionWithPrefix(backend, cfg.Collection)
	orders.SetLogger(logger)
	mgr := salesbase.NewManagerWithObservability(orders, logger, &salesbase.NoOpMetrics{})

	// Fresh load: clear, then ingest the export
	if _, err := mgr.Clear(ctx); err != nil {
		return err
	}
	count, err := mgr.LoadCSVFile(ctx, cfg.CSVPath)
	if err != nil {
		return err
	}
	fmt.Printf("Inserted %d documents\n\n", count)

	if err := demoCRUD(ctx, mgr); err != nil {
		return err
	}
	return runQueries(ctx, mgr, top)
}

func demoCRUD(ctx context.Context, mgr *salesbase.Manager) error {
	fmt.Println("--- CRUD operations ---")

	demo := salesbase.Document{
		OrderID: "TEST-123-456",
		Date:    time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:  "Pending",
		Customer: salesbase.Customer{
			Shipping: salesbase.Shipping{
				City:       "Hyderabad",
				State:      "Telangana",
				PostalCode: "500001",
				Country:    "IN",
			},
		},
		Product:   salesbase.Product{Category: "Kurta", Quantity: 2},
		Financial: salesbase.Financial{Currency: "INR", Amount: 800.0},
		DateInfo:  salesbase.DateInfo{Year: 2022, Month: 5, Day: 1, MonthName: "May"},
	}

	id, err := mgr.CreateOrder(ctx, demo)
	if err != nil {
		return err
	}
	fmt.Printf("created order %s (id %s)\n", demo.OrderID, id)

	order, err := mgr.ReadOrder(ctx, demo.OrderID)
	if err != nil {
		return err
	}
	fmt.Printf("read order %s: status=%s amount=%.2f\n", order.OrderID, order.Status, order.Financial.Amount)

	modified, err := mgr.UpdateOrder(ctx, demo.OrderID, map[string]interface{}{"status": "Shipped"})
	if err != nil {
		return err
	}
	fmt.Printf("updated order %s: modified=%d\n", demo.OrderID, modified)

	deleted, err := mgr.DeleteOrder(ctx, demo.OrderID)
	if err != nil {
		return err
	}
	fmt.Printf("deleted order %s: deleted=%d\n\n", demo.OrderID, deleted)
	return nil
}

func runQueries(ctx context.Context, mgr *salesbase.Manager, top int) error {
	start := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 4, 30, 0, 0, 0, 0, time.UTC)
	inRange, err := mgr.OrdersInDateRange(ctx, start, end)
	if err != nil {
		return err
	}
	fmt.Printf("--- Orders between %s and %s: %d ---\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"), len(inRange))
	for i, order := range inRange {
		if i >= 5 {
			break
		}
		fmt.Printf("%d. %s  %s  %s %s %.2f  %s\n",
			i+1, order.OrderID, order.Date.Format("2006-01-02"), order.Status,
			order.Financial.Currency, order.Financial.Amount, order.Customer.Shipping.State)
	}
	fmt.Println()

	byRegion, err := mgr.SalesByRegion(ctx, top)
	if err != nil {
		return err
	}
	fmt.Printf("--- Top %d regions by sales ---\n", top)
	if err := salesbase.RenderTable(os.Stdout, []salesbase.Column{
		{Header: "State", Field: "_id"},
		{Header: "Total Sales", Field: "total_sales"},
		{Header: "Orders", Field: "order_count"},
		{Header: "Avg Order", Field: "avg_order_value"},
		{Header: "Qty", Field: "total_quantity"},
	}, byRegion); err != nil {
		return err
	}
	fmt.Println()

	byCategory, err := mgr.SalesByCategory(ctx)
	if err != nil {
		return err
	}
	fmt.Println("--- Sales by category ---")
	if err := salesbase.RenderTable(os.Stdout, []salesbase.Column{
		{Header: "Category", Field: "_id"},
		{Header: "Revenue", Field: "total_revenue"},
		{Header: "Orders", Field: "total_orders"},
		{Header: "Units", Field: "total_units"},
		{Header: "Avg Price", Field: "avg_price"},
	}, byCategory); err != nil {
		return err
	}
	fmt.Println()

	monthly, err := mgr.MonthlySalesTrend(ctx)
	if err != nil {
		return err
	}
	fmt.Println("--- Monthly sales trend ---")
	if err := salesbase.RenderTable(os.Stdout, []salesbase.Column{
		{Header: "Month", Field: "_id.month_name"},
		{Header: "Year", Field: "_id.year"},
		{Header: "Total Sales", Field: "total_sales"},
		{Header: "Orders", Field: "order_count"},
	}, monthly); err != nil {
		return err
	}
	fmt.Println()

	b2b, err := mgr.B2BByCategory(ctx)
	if err != nil {
		return err
	}
	fmt.Println("--- B2B vs B2C by category ---")
	return salesbase.RenderTable(os.Stdout, []salesbase.Column{
		{Header: "Category", Field: "_id.category"},
		{Header: "Type", Field: "_id.b2b"},
		{Header: "Revenue", Field: "total_revenue"},
		{Header: "Orders", Field: "order_count"},
	}, b2b)
}
