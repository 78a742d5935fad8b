package salesbase

import (
	"encoding/json"
	"strings"
	"time"
)

// Document is one sales order as stored and queried.
//
// The nested shape mirrors the analytical access paths: customer and product
// attributes live under their own sub-objects, and DateInfo carries a
// denormalized copy of Date's components so group stages never need date-part
// extraction at query time.
type Document struct {
	OrderID      string       `json:"order_id"`
	Date         time.Time    `json:"date"`
	Status       string       `json:"status"`
	Fulfilment   string       `json:"fulfilment"`
	SalesChannel string       `json:"sales_channel"`
	Customer     Customer     `json:"customer"`
	Product      Product      `json:"product"`
	OrderDetails OrderDetails `json:"order_details"`
	Financial    Financial    `json:"financial"`
	DateInfo     DateInfo     `json:"date_info"`
}

// Customer holds buyer classification and the shipping destination
type Customer struct {
	B2B      bool     `json:"b2b"`
	Shipping Shipping `json:"shipping"`
}

// Shipping is the delivery address of an order
type Shipping struct {
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Product identifies what was sold and how many units
type Product struct {
	Style    string `json:"style"`
	SKU      string `json:"sku"`
	Category string `json:"category"`
	Size     string `json:"size"`
	ASIN     string `json:"asin"`
	Quantity int    `json:"quantity"`
}

// OrderDetails carries fulfilment metadata.
// Promotions is nil when the source row signalled "No Promotion".
type OrderDetails struct {
	ServiceLevel  string  `json:"service_level"`
	CourierStatus string  `json:"courier_status"`
	FulfilledBy   string  `json:"fulfilled_by"`
	Promotions    *string `json:"promotions"`
}

// Financial is the monetary value of an order
type Financial struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// DateInfo is the denormalized breakdown of Document.Date
type DateInfo struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	MonthName string `json:"month_name"`
}

// Result is a document in its generic map form: the shape pipeline stages
// consume and produce. Stored documents are converted to this form when a
// pipeline snapshot is taken; group stages emit new Result values that never
// existed as typed documents.
type Result = map[string]interface{}

// ToMap converts the document to its generic map form via its JSON encoding,
// so typed documents and pipeline results share one field-path code path.
func (d Document) ToMap() (Result, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var m Result
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Field resolves a dotted path ("customer.shipping.state") against the
// document. The second return is false when any path segment is absent.
func (d Document) Field(path string) (interface{}, bool) {
	m, err := d.ToMap()
	if err != nil {
		return nil, false
	}
	return lookupPath(m, path)
}

// lookupPath resolves a dotted field path against a generic document map.
// Returns (nil, false) when any segment is missing or a non-final segment
// is not itself an object.
func lookupPath(doc Result, path string) (interface{}, bool) {
	var current interface{} = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at a dotted field path, creating intermediate objects
// as needed. Used by field-level merge updates.
func setPath(doc Result, path string, value interface{}) {
	parts := strings.Split(path, ".")
	m := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}
