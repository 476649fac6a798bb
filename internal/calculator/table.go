package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Header captions of the exported table.
const (
	OrderDateCaption = "Order Date:"
	ItemHeader       = "Item"
	TotalHeader      = "Total Price"
)

// Cell is one exported value. Bold marks captions, headers and summary rows.
type Cell struct {
	Value any  `json:"value"`
	Bold  bool `json:"bold,omitempty"`
}

// String renders the cell for display; amounts always carry two decimals.
func (c Cell) String() string {
	switch v := c.Value.(type) {
	case float64:
		return decimal.NewFromFloat(v).StringFixed(2)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Table is the row-oriented form of a ledger, ready for a spreadsheet.
type Table struct {
	Rows [][]Cell `json:"rows"`
}

// FormatTable lays out a ledger as:
//
//	Order Date: | <date>
//	Item        | Total Price | <participant>...
//	<item rows>
//	Tax         | <tax>       | <share>...       (only when tax was split)
//	Total       | <total>     | <person total>...
//
// Amounts are rounded to cents here and nowhere else.
func FormatTable(l Ledger) Table {
	rows := make([][]Cell, 0, len(l.Rows)+2)

	rows = append(rows, []Cell{
		{Value: OrderDateCaption, Bold: true},
		{Value: l.OrderDate, Bold: true},
	})

	header := make([]Cell, 0, len(l.Participants)+2)
	header = append(header, Cell{Value: ItemHeader, Bold: true}, Cell{Value: TotalHeader, Bold: true})
	for _, p := range l.Participants {
		header = append(header, Cell{Value: p, Bold: true})
	}
	rows = append(rows, header)

	for _, r := range l.Rows {
		bold := r.Kind != ItemRow
		row := make([]Cell, 0, len(r.Shares)+2)
		row = append(row, Cell{Value: r.Label, Bold: bold}, Cell{Value: RoundCents(r.Total), Bold: bold})
		for _, share := range r.Shares {
			row = append(row, Cell{Value: RoundCents(share), Bold: bold})
		}
		rows = append(rows, row)
	}

	return Table{Rows: rows}
}

// Values returns the plain cell values.
func (t Table) Values() [][]any {
	out := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]any, len(row))
		for j, c := range row {
			out[i][j] = c.Value
		}
	}
	return out
}

// MarkedValues returns the cell values with bold cells rendered as
// "**text**", the markup older sheet templates expect.
func (t Table) MarkedValues() [][]any {
	out := t.Values()
	for i, row := range t.Rows {
		for j, c := range row {
			if c.Bold {
				out[i][j] = "**" + c.String() + "**"
			}
		}
	}
	return out
}

// RoundCents rounds an amount half away from zero to two decimal places.
func RoundCents(v float64) float64 {
	r := decimal.NewFromFloat(v).Round(2).InexactFloat64()
	if r == 0 {
		return 0 // no negative zero
	}
	return r
}
