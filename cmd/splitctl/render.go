package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mmynk/splitshare/internal/calculator"
)

// renderTable prints the ledger as aligned columns.
func renderTable(w io.Writer, t calculator.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = c.String()
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t"); err != nil {
			return err
		}
	}
	return tw.Flush()
}
