package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"pricepipe/internal/model"
)

func makeRows(n int) []model.Row {
	rows := make([]model.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, model.Row{
			Timestamp: fmt.Sprintf("2026-09-01 12:%02d:00", i%60),
			Price:     float64(i),
		})
	}
	return rows
}

func TestDownsampleRowsKeepsSmallSets(t *testing.T) {
	rows := makeRows(10)
	require.Equal(t, rows, downsampleRows(rows, 100))
	require.Equal(t, rows, downsampleRows(rows, 0))
}

func TestDownsampleRowsToSinglePoint(t *testing.T) {
	rows := makeRows(10)

	out := downsampleRows(rows, 1)
	require.Len(t, out, 1)
	require.Equal(t, rows[len(rows)-1], out[0])
}

func TestDownsampleRowsKeepsEndpoints(t *testing.T) {
	rows := makeRows(1000)

	out := downsampleRows(rows, 50)
	require.Len(t, out, 50)
	require.Equal(t, rows[0], out[0])
	require.Equal(t, rows[len(rows)-1], out[len(out)-1])
}
