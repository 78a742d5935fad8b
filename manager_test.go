package salesbase

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestManager() *Manager {
	return NewManager(NewCollection(NewMemoryBackend()))
}

// salesCSV builds a CSV export from rows expressed as header->value maps,
// defaulting every column from sampleRow
func salesCSV(overrides ...map[string]string) string {
	headers := []string{
		"Order ID", "Date", "Status", "Fulfilment", "Sales Channel", "B2B",
		"ship-city", "ship-state", "ship-postal-code", "ship-country",
		"Style", "SKU", "Category", "Size", "ASIN", "Qty",
		"ship-service-level", "Courier Status", "fulfilled-by",
		"promotion-ids", "currency", "Amount",
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteString("\n")
	for _, override := range overrides {
		row := sampleRow()
		for k, v := range override {
			row[k] = v
		}
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = row[h]
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func TestManager_CRUDLifecycle(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	doc := testOrder("A", "Kurta", 800)
	if _, err := mgr.CreateOrder(ctx, doc); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	got, err := mgr.ReadOrder(ctx, "A")
	if err != nil {
		t.Fatalf("ReadOrder failed: %v", err)
	}
	if got.Status != "Pending" || got.Financial.Amount != 800 {
		t.Errorf("ReadOrder = %+v", got)
	}

	modified, err := mgr.UpdateOrder(ctx, "A", map[string]interface{}{"status": "Shipped"})
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if modified != 1 {
		t.Errorf("modified = %d, want 1", modified)
	}

	got, err = mgr.ReadOrder(ctx, "A")
	if err != nil {
		t.Fatalf("ReadOrder after update failed: %v", err)
	}
	if got.Status != "Shipped" {
		t.Errorf("Status = %q, want Shipped", got.Status)
	}

	deleted, err := mgr.DeleteOrder(ctx, "A")
	if err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	if _, err := mgr.ReadOrder(ctx, "A"); !IsNotFound(err) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestManager_UpdateNonExistent(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	modified, err := mgr.UpdateOrder(ctx, "ghost", map[string]interface{}{"status": "Shipped"})
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if modified != 0 {
		t.Errorf("modified = %d, want 0", modified)
	}

	n, err := mgr.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d, update must not insert", n)
	}
}

func TestManager_LoadCSV(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	csv := salesCSV(
		map[string]string{"Order ID": "A-1", "Category": "Kurta", "Amount": "500"},
		map[string]string{"Order ID": "A-2", "Category": "Set", "Amount": "400"},
		map[string]string{"Order ID": "A-3", "Category": "Kurta", "Amount": "300"},
	)

	inserted, err := mgr.LoadCSV(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if inserted != 3 {
		t.Errorf("inserted = %d, want 3", inserted)
	}

	n, err := mgr.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}

	doc, err := mgr.ReadOrder(ctx, "A-2")
	if err != nil {
		t.Fatalf("ReadOrder failed: %v", err)
	}
	if doc.Product.Category != "Set" || doc.Financial.Amount != 400 {
		t.Errorf("ReadOrder = %+v", doc)
	}
}

func TestManager_LoadCSVBadRowInsertsNothing(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	csv := salesCSV(
		map[string]string{"Order ID": "A-1"},
		map[string]string{"Order ID": "A-2", "Date": "30/04/22"}, // unparseable date
		map[string]string{"Order ID": "A-3"},
	)

	inserted, err := mgr.LoadCSV(ctx, strings.NewReader(csv))
	if !IsBadRow(err) {
		t.Fatalf("expected ErrBadRow, got %v", err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0", inserted)
	}

	n, _ := mgr.Count(ctx)
	if n != 0 {
		t.Errorf("Count = %d, bad batch must insert nothing", n)
	}
}

func TestManager_Clear(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	for _, id := range []string{"A-1", "A-2"} {
		if _, err := mgr.CreateOrder(ctx, testOrder(id, "Kurta", 100)); err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
	}

	deleted, err := mgr.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Clear deleted %d, want 2", deleted)
	}
	n, _ := mgr.Count(ctx)
	if n != 0 {
		t.Errorf("Count after Clear = %d", n)
	}
}

func TestManager_OrdersInDateRange(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	csv := salesCSV(
		map[string]string{"Order ID": "in-1", "Date": "2022-04-10"},
		map[string]string{"Order ID": "out-1", "Date": "2022-03-31"},
		map[string]string{"Order ID": "in-2", "Date": "2022-04-30"}, // inclusive end
		map[string]string{"Order ID": "out-2", "Date": "2022-05-01"},
	)
	if _, err := mgr.LoadCSV(ctx, strings.NewReader(csv)); err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	docs, err := mgr.OrdersInDateRange(ctx,
		time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 4, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("OrdersInDateRange failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	for _, d := range docs {
		if !strings.HasPrefix(d.OrderID, "in-") {
			t.Errorf("out-of-range order returned: %s", d.OrderID)
		}
	}
}

func TestManager_SalesByRegion(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	csv := salesCSV(
		map[string]string{"Order ID": "A-1", "ship-state": "MAHARASHTRA", "Amount": "500", "Qty": "2"},
		map[string]string{"Order ID": "A-2", "ship-state": "MAHARASHTRA", "Amount": "300", "Qty": "1"},
		map[string]string{"Order ID": "A-3", "ship-state": "KARNATAKA", "Amount": "600", "Qty": "1"},
		map[string]string{"Order ID": "A-4", "ship-state": "KARNATAKA", "Amount": "900", "Status": "Cancelled"},
	)
	if _, err := mgr.LoadCSV(ctx, strings.NewReader(csv)); err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	out, err := mgr.SalesByRegion(ctx, 10)
	if err != nil {
		t.Fatalf("SalesByRegion failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d regions, want 2", len(out))
	}

	// Cancelled order excluded, so MAHARASHTRA (800) outranks KARNATAKA (600)
	first := out[0]
	if first["_id"] != "MAHARASHTRA" {
		t.Fatalf("top region = %v, want MAHARASHTRA", first["_id"])
	}
	if first["total_sales"].(float64) != 800 {
		t.Errorf("total_sales = %v, want 800", first["total_sales"])
	}
	if first["order_count"].(float64) != 2 {
		t.Errorf("order_count = %v, want 2", first["order_count"])
	}
	if first["avg_order_value"].(float64) != 400 {
		t.Errorf("avg_order_value = %v, want 400", first["avg_order_value"])
	}
	if first["total_quantity"].(float64) != 3 {
		t.Errorf("total_quantity = %v, want 3", first["total_quantity"])
	}
}

func TestManager_SalesByRegionLimit(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	csv := salesCSV(
		map[string]string{"Order ID": "A-1", "ship-state": "MAHARASHTRA", "Amount": "500"},
		map[string]string{"Order ID": "A-2", "ship-state": "KARNATAKA", "Amount": "300"},
		map[string]string{"Order ID": "A-3", "ship-state": "TELANGANA", "Amount": "100"},
	)
	if _, err := mgr.LoadCSV(ctx, strings.NewReader(csv)); err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	out, err := mgr.SalesByRegion(ctx, 2)
	if err != nil {
		t.Fatalf("SalesByRegion failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d regions, want 2", len(out))
	}
	if out[0]["_id"] != "MAHARASHTRA" || out[1]["_id"] != "KARNATAKA" {
		t.Errorf("wrong top regions: %v, %v", out[0]["_id"], out[1]["_id"])
	}
}

func TestManager_SalesByCategory(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	csv := salesCSV(
		map[string]string{"Order ID": "A-1", "Category": "Kurta", "Amount": "500"},
		map[string]string{"Order ID": "A-2", "Category": "Kurta", "Amount": "300"},
		map[string]string{"Order ID": "A-3", "Category": "Set", "Amount": "400"},
		map[string]string{"Order ID": "A-4", "Category": "Set", "Amount": "0"}, // zero-amount excluded
	)
	if _, err := mgr.LoadCSV(ctx, strings.NewReader(csv)); err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	out, err := mgr.SalesByCategory(ctx)
	if err != nil {
		t.Fatalf("SalesByCategory failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d categories, want 2", len(out))
	}
	if out[0]["_id"] != "Kurta" || out[0]["total_revenue"].(float64) != 800 {
		t.Errorf("top category = %+v, want Kurta/800", out[0])
	}
	if out[1]["_id"] != "Set" || out[1]["total_orders"].(float64) != 1 {
		t.Errorf("second category = %+v, want Set with 1 order", out[1])
	}
}

func TestManager_MonthlySalesTrend(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	csv := salesCSV(
		map[string]string{"Order ID": "A-1", "Date": "2022-05-10", "Amount": "300"},
		map[string]string{"Order ID": "A-2", "Date": "2022-04-05", "Amount": "500"},
		map[string]string{"Order ID": "A-3", "Date": "2022-04-20", "Amount": "200"},
	)
	if _, err := mgr.LoadCSV(ctx, strings.NewReader(csv)); err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	out, err := mgr.MonthlySalesTrend(ctx)
	if err != nil {
		t.Fatalf("MonthlySalesTrend failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d months, want 2", len(out))
	}

	april := out[0]["_id"].(map[string]interface{})
	if april["month"].(float64) != 4 || april["month_name"] != "April" {
		t.Errorf("first month = %+v, want April", april)
	}
	if out[0]["total_sales"].(float64) != 700 {
		t.Errorf("April total_sales = %v, want 700", out[0]["total_sales"])
	}
	may := out[1]["_id"].(map[string]interface{})
	if may["month"].(float64) != 5 {
		t.Errorf("second month = %+v, want May", may)
	}
}

func TestManager_B2BByCategory(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	csv := salesCSV(
		map[string]string{"Order ID": "A-1", "Category": "Kurta", "B2B": "True", "Amount": "500"},
		map[string]string{"Order ID": "A-2", "Category": "Kurta", "B2B": "False", "Amount": "300"},
		map[string]string{"Order ID": "A-3", "Category": "Set", "B2B": "False", "Amount": "400"},
	)
	if _, err := mgr.LoadCSV(ctx, strings.NewReader(csv)); err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	out, err := mgr.B2BByCategory(ctx)
	if err != nil {
		t.Fatalf("B2BByCategory failed: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d groups, want 3", len(out))
	}

	// Categories ascend; within Kurta the B2B group comes first
	first := out[0]["_id"].(map[string]interface{})
	if first["category"] != "Kurta" || first["b2b"] != true {
		t.Errorf("first group = %+v, want Kurta/B2B", first)
	}
	second := out[1]["_id"].(map[string]interface{})
	if second["category"] != "Kurta" || second["b2b"] != false {
		t.Errorf("second group = %+v, want Kurta/B2C", second)
	}
	third := out[2]["_id"].(map[string]interface{})
	if third["category"] != "Set" {
		t.Errorf("third group = %+v, want Set", third)
	}
}

func TestManager_LoadCSVFileMissing(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager()

	_, err := mgr.LoadCSVFile(ctx, "/nonexistent/sales.csv")
	if !IsBadRow(err) {
		t.Fatalf("expected ErrBadRow, got %v", err)
	}
}
