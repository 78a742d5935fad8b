package salesbase

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// Column maps one report column to a dotted field path in result documents
type Column struct {
	Header string
	Field  string
}

// RenderTable writes result documents as an aligned text table. Missing
// fields render as "Unknown", matching the source reports; floats render
// with two decimals.
func RenderTable(w io.Writer, columns []Column, rows []Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col.Header)
	}
	fmt.Fprintln(tw)

	for _, row := range rows {
		for i, col := range columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, renderCell(row, col.Field))
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

func renderCell(row Result, field string) string {
	v, ok := lookupPath(row, field)
	if !ok || v == nil {
		return "Unknown"
	}

	switch val := v.(type) {
	case float64:
		// Whole numbers (counts, quantities) print without decimals
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', 2, 64)
	case bool:
		if val {
			return "B2B"
		}
		return "B2C"
	case string:
		return val
	}
	return fmt.Sprintf("%v", v)
}
