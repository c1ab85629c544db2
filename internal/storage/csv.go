package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"pricepipe/internal/model"
)

var csvHeader = []string{"timestamp", "price"}

// CSVExporter appends rows to a flat delimited file. The header is written
// only when the file does not exist yet; the file is never truncated.
type CSVExporter struct {
	Path string
}

// Append writes one row, creating the file with a header on first use.
func (e CSVExporter) Append(row model.Row) error {
	_, statErr := os.Stat(e.Path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(e.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("storage: open csv %s: %w", e.Path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if writeHeader {
		if err := writer.Write(csvHeader); err != nil {
			return fmt.Errorf("storage: write csv header: %w", err)
		}
	}

	record := []string{row.Timestamp, strconv.FormatFloat(row.Price, 'f', -1, 64)}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("storage: write csv row: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("storage: flush csv: %w", err)
	}
	return nil
}
