package model

// TimestampLayout is the fixed wall-clock format carried through both sinks.
const TimestampLayout = "2006-01-02 15:04:05"

// PriceRecord is a single observation produced by the fetcher.
type PriceRecord struct {
	Timestamp string
	Price     float64
}

// Row is the two-column shape written to the sinks.
type Row struct {
	Timestamp string
	Price     float64
}
