// Package transform maps fetched observations into the row shape shared by
// both sinks. Kept as a standalone seam so future enrichment or validation
// has a home without touching the fetcher or the sinks.
package transform

import "pricepipe/internal/model"

// ToRow converts a price record into a sink row. Pure and total.
func ToRow(record model.PriceRecord) model.Row {
	return model.Row{
		Timestamp: record.Timestamp,
		Price:     record.Price,
	}
}
