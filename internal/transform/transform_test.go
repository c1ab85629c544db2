package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pricepipe/internal/model"
)

func TestToRow(t *testing.T) {
	record := model.PriceRecord{Timestamp: "2026-09-01 12:00:00", Price: 12345.67}

	row := ToRow(record)
	require.Equal(t, record.Timestamp, row.Timestamp)
	require.Equal(t, record.Price, row.Price)
}

func TestToRowDeterministic(t *testing.T) {
	record := model.PriceRecord{Timestamp: "2026-09-01 12:00:00", Price: 1.0}

	first := ToRow(record)
	second := ToRow(record)
	require.Equal(t, first, second)
}
