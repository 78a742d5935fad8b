package salesbase

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// Column names of the source CSV export. The mapper reads rows by these
// names, so column order in the file is irrelevant.
const (
	colOrderID       = "Order ID"
	colDate          = "Date"
	colStatus        = "Status"
	colFulfilment    = "Fulfilment"
	colSalesChannel  = "Sales Channel"
	colB2B           = "B2B"
	colShipCity      = "ship-city"
	colShipState     = "ship-state"
	colShipPostal    = "ship-postal-code"
	colShipCountry   = "ship-country"
	colStyle         = "Style"
	colSKU           = "SKU"
	colCategory      = "Category"
	colSize          = "Size"
	colASIN          = "ASIN"
	colQty           = "Qty"
	colServiceLevel  = "ship-service-level"
	colCourierStatus = "Courier Status"
	colFulfilledBy   = "fulfilled-by"
	colPromotionIDs  = "promotion-ids"
	colCurrency      = "currency"
	colAmount        = "Amount"
)

// sourceDateFormat is the only accepted textual date layout.
// Rows that fail to parse abort the whole batch: the denormalized date_info
// could not be verified against a missing date.
const sourceDateFormat = "2006-01-02"

// noPromotion is the literal the source uses to signal an absent promotion
const noPromotion = "No Promotion"

// MapRow converts one flat CSV row into a nested order document.
//
// Numeric coercion is permissive: an empty Qty or Amount maps to zero so
// bulk ingestion survives partial rows. A non-empty value that fails to
// parse, or a bad date, returns an error wrapping ErrBadRow.
func MapRow(row map[string]string) (Document, error) {
	date, err := time.Parse(sourceDateFormat, row[colDate])
	if err != nil {
		return Document{}, WithContext(ErrBadRow, map[string]interface{}{
			"field":  colDate,
			"value":  row[colDate],
			"reason": "bad date",
		})
	}

	qty, err := coerceInt(row[colQty])
	if err != nil {
		return Document{}, WithContext(ErrBadRow, map[string]interface{}{
			"field": colQty,
			"value": row[colQty],
		})
	}

	amount, err := coerceFloat(row[colAmount])
	if err != nil {
		return Document{}, WithContext(ErrBadRow, map[string]interface{}{
			"field": colAmount,
			"value": row[colAmount],
		})
	}

	var promotions *string
	if v := row[colPromotionIDs]; v != noPromotion {
		promotions = &v
	}

	return Document{
		OrderID:      row[colOrderID],
		Date:         date,
		Status:       row[colStatus],
		Fulfilment:   row[colFulfilment],
		SalesChannel: row[colSalesChannel],
		Customer: Customer{
			B2B: row[colB2B] == "True",
			Shipping: Shipping{
				City:       row[colShipCity],
				State:      row[colShipState],
				PostalCode: row[colShipPostal],
				Country:    row[colShipCountry],
			},
		},
		Product: Product{
			Style:    row[colStyle],
			SKU:      row[colSKU],
			Category: row[colCategory],
			Size:     row[colSize],
			ASIN:     row[colASIN],
			Quantity: qty,
		},
		OrderDetails: OrderDetails{
			ServiceLevel:  row[colServiceLevel],
			CourierStatus: row[colCourierStatus],
			FulfilledBy:   row[colFulfilledBy],
			Promotions:    promotions,
		},
		Financial: Financial{
			Currency: row[colCurrency],
			Amount:   amount,
		},
		// Derived from the parsed date rather than trusted from the
		// Year/Month/Day columns, so date_info always mirrors date.
		DateInfo: DateInfo{
			Year:      date.Year(),
			Month:     int(date.Month()),
			Day:       date.Day(),
			MonthName: date.Month().String(),
		},
	}, nil
}

// MapRows maps a whole batch, all-or-nothing: the first bad row aborts the
// batch with its row number in the error context and no documents are
// returned.
func MapRows(rows []map[string]string) ([]Document, error) {
	docs := make([]Document, 0, len(rows))
	for i, row := range rows {
		doc, err := MapRow(row)
		if err != nil {
			return nil, WithContext(err, map[string]interface{}{"row": i + 1})
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ReadRows reads a header-bearing CSV stream into column-name keyed rows
func ReadRows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, WithContext(ErrBadRow, map[string]interface{}{"reason": err.Error()})
	}

	var rows []map[string]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, WithContext(ErrBadRow, map[string]interface{}{
				"row":    len(rows) + 1,
				"reason": err.Error(),
			})
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func coerceInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func coerceFloat(s string) (float64, error) {
	if s == "" {
		return 0.0, nil
	}
	return strconv.ParseFloat(s, 64)
}
