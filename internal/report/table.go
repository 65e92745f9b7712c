package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/jpalmerr/sitecheck"
)

// TableWriter renders rounds as aligned terminal tables.
type TableWriter struct {
	output io.Writer
	opts   options
}

// WriteRound renders the round header (periodic mode), the results table
// and the summary line.
func (w *TableWriter) WriteRound(round sitecheck.Round) error {
	if w.opts.roundHeaders {
		if _, err := fmt.Fprintf(w.output, "\n=== Round %d ===\n", round.Number); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w.output)
	table.Header(headerCells()...)
	if err := table.Bulk(rows(round)); err != nil {
		return fmt.Errorf("building table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	_, err := fmt.Fprintf(w.output, "\n%s\n", SummaryLine(round))
	return err
}

func headerCells() []any {
	cells := make([]any, len(columns))
	for i, c := range columns {
		cells[i] = c
	}
	return cells
}
