package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
)

// Show prints the most recent stored prices.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.ListRecent(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "no prices found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Timestamp\tPrice")
	for _, row := range rows {
		fmt.Fprintf(writer, "%s\t%s\n", row.Timestamp, strconv.FormatFloat(row.Price, 'f', -1, 64))
	}

	return writer.Flush()
}
