package calculator

import (
	"slices"

	"github.com/mmynk/splitshare/internal/models"
)

// Row labels used by the ledger.
const (
	TaxLabel   = "Tax"
	TotalLabel = "Total"
)

// RowKind identifies the role of a ledger row.
type RowKind int

const (
	ItemRow RowKind = iota
	TaxRow
	TotalRow
)

func (k RowKind) String() string {
	switch k {
	case ItemRow:
		return "item"
	case TaxRow:
		return "tax"
	case TotalRow:
		return "total"
	default:
		return "unknown"
	}
}

// Row is one line of the ledger.
type Row struct {
	Kind  RowKind
	Label string
	Total float64

	// Shares holds one amount per participant, aligned with
	// Ledger.Participants. It is nil when there is nobody to allocate to.
	Shares []float64
}

// Ledger is the per-person breakdown of an order.
// Amounts are unrounded; rounding happens in FormatTable.
type Ledger struct {
	OrderDate    string
	Participants []string
	Rows         []Row

	// PersonTotals accumulates every participant's item shares and tax share.
	PersonTotals map[string]float64

	// GrandTotal is the sum of all item totals, before tax.
	GrandTotal float64
	TaxAmount  float64
}

// Total returns the order total including tax.
func (l Ledger) Total() float64 {
	return l.GrandTotal + l.TaxAmount
}

// ComputeLedger allocates every item of an order to the participants.
//
// Algorithm, per item in order:
//   - the item price is the line total (quantity is not multiplied in)
//   - the selection is the item's assigned participants that are still
//     registered; an empty selection means everyone
//   - a single selected participant owns the whole item
//   - otherwise each selected participant gets total / len(selection)
//   - with no participants at all the item is listed without shares
//
// Tax is split evenly across all participants regardless of assignments.
// The result never aliases its inputs.
func ComputeLedger(items []models.Item, participants []string, meta models.OrderMeta) Ledger {
	participants = uniqueNames(participants)

	ledger := Ledger{
		OrderDate:    meta.OrderDate,
		Participants: participants,
		PersonTotals: make(map[string]float64, len(participants)),
		TaxAmount:    max(meta.TaxAmount, 0),
	}
	if ledger.OrderDate == "" {
		ledger.OrderDate = models.NoOrderDate
	}
	for _, p := range participants {
		ledger.PersonTotals[p] = 0
	}

	for _, item := range items {
		ledger.GrandTotal += item.Price
		row := Row{Kind: ItemRow, Label: item.Name, Total: item.Price}

		sel := selection(item.Assigned, participants)
		if len(sel) > 0 {
			row.Shares = allocate(item.Price, sel, participants)
			for i, p := range participants {
				ledger.PersonTotals[p] += row.Shares[i]
			}
		}
		ledger.Rows = append(ledger.Rows, row)
	}

	if n := len(participants); ledger.TaxAmount > 0 && n > 0 {
		perPerson := ledger.TaxAmount / float64(n)
		shares := make([]float64, n)
		for i, p := range participants {
			shares[i] = perPerson
			ledger.PersonTotals[p] += perPerson
		}
		ledger.Rows = append(ledger.Rows, Row{Kind: TaxRow, Label: TaxLabel, Total: ledger.TaxAmount, Shares: shares})
	}

	total := Row{Kind: TotalRow, Label: TotalLabel, Total: ledger.Total()}
	if len(participants) > 0 {
		total.Shares = make([]float64, len(participants))
		for i, p := range participants {
			total.Shares[i] = ledger.PersonTotals[p]
		}
	}
	ledger.Rows = append(ledger.Rows, total)

	return ledger
}

// selection returns the registered, de-duplicated assignees of an item, or
// all participants when none remain.
func selection(assigned, participants []string) []string {
	var sel []string
	for _, name := range assigned {
		if slices.Contains(participants, name) && !slices.Contains(sel, name) {
			sel = append(sel, name)
		}
	}
	if len(sel) == 0 {
		return participants
	}
	return sel
}

// allocate returns each participant's share of total.
func allocate(total float64, sel, participants []string) []float64 {
	shares := make([]float64, len(participants))

	// One assignee owns the item outright.
	if len(sel) == 1 {
		shares[slices.Index(participants, sel[0])] = total
		return shares
	}

	perPerson := total / float64(len(sel))
	for i, p := range participants {
		if slices.Contains(sel, p) {
			shares[i] = perPerson
		}
	}
	return shares
}

func uniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
