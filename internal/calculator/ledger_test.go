package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/splitshare/internal/models"
)

const epsilon = 1e-6

func shareOf(t *testing.T, l Ledger, row int, person string) float64 {
	t.Helper()
	for i, p := range l.Participants {
		if p == person {
			return l.Rows[row].Shares[i]
		}
	}
	t.Fatalf("%s is not a participant", person)
	return 0
}

func assertReconciles(t *testing.T, l Ledger) {
	t.Helper()
	sum := 0.0
	for _, v := range l.PersonTotals {
		sum += v
	}
	if math.Abs(sum-l.Total()) > epsilon {
		t.Errorf("sum(person totals) = %v, want %v", sum, l.Total())
	}
}

func TestComputeLedger(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.Item
		participants []string
		meta         models.OrderMeta
		validateFunc func(t *testing.T, l Ledger)
	}{
		{
			name: "bread and milk",
			items: []models.Item{
				{Name: "Bread", Price: 2.48},
				{Name: "Milk", Price: 2.97, Assigned: []string{"Alice"}},
			},
			participants: []string{"Alice", "Bob"},
			validateFunc: func(t *testing.T, l Ledger) {
				// Bread: 1.24 / 1.24, Milk: 2.97 / 0
				if math.Abs(shareOf(t, l, 0, "Alice")-1.24) > epsilon || math.Abs(shareOf(t, l, 0, "Bob")-1.24) > epsilon {
					t.Errorf("bread shares = %v, want [1.24 1.24]", l.Rows[0].Shares)
				}
				if shareOf(t, l, 1, "Alice") != 2.97 || shareOf(t, l, 1, "Bob") != 0 {
					t.Errorf("milk shares = %v, want [2.97 0]", l.Rows[1].Shares)
				}
				if math.Abs(l.PersonTotals["Alice"]-4.21) > epsilon {
					t.Errorf("Alice total = %v, want 4.21", l.PersonTotals["Alice"])
				}
				if math.Abs(l.PersonTotals["Bob"]-1.24) > epsilon {
					t.Errorf("Bob total = %v, want 1.24", l.PersonTotals["Bob"])
				}
				if math.Abs(l.GrandTotal-5.45) > epsilon {
					t.Errorf("grand total = %v, want 5.45", l.GrandTotal)
				}
				if len(l.Rows) != 3 || l.Rows[2].Kind != TotalRow {
					t.Errorf("rows = %+v, want 2 items and a total row", l.Rows)
				}
				assertReconciles(t, l)
			},
		},
		{
			name:         "single assignee owns the whole item",
			items:        []models.Item{{Name: "Wine", Price: 9.87, Assigned: []string{"Carol"}}},
			participants: []string{"Alice", "Bob", "Carol"},
			validateFunc: func(t *testing.T, l Ledger) {
				if got := shareOf(t, l, 0, "Carol"); got != 9.87 {
					t.Errorf("Carol share = %v, want exactly 9.87", got)
				}
				for _, p := range []string{"Alice", "Bob"} {
					if got := shareOf(t, l, 0, p); got != 0 {
						t.Errorf("%s share = %v, want 0", p, got)
					}
				}
				assertReconciles(t, l)
			},
		},
		{
			name:         "even split among assignees",
			items:        []models.Item{{Name: "Chips", Price: 10, Assigned: []string{"Alice", "Carol", "Dave"}}},
			participants: []string{"Alice", "Bob", "Carol", "Dave"},
			validateFunc: func(t *testing.T, l Ledger) {
				sum := 0.0
				for _, p := range []string{"Alice", "Carol", "Dave"} {
					got := shareOf(t, l, 0, p)
					if math.Abs(got-10.0/3) > epsilon {
						t.Errorf("%s share = %v, want %v", p, got, 10.0/3)
					}
					sum += got
				}
				if math.Abs(sum-10) > epsilon {
					t.Errorf("shares sum to %v, want 10", sum)
				}
				if got := shareOf(t, l, 0, "Bob"); got != 0 {
					t.Errorf("Bob share = %v, want 0", got)
				}
			},
		},
		{
			name:         "unassigned item is split among everyone",
			items:        []models.Item{{Name: "Peanuts", Price: 2.58}},
			participants: []string{"Alice", "Bob", "Carol"},
			validateFunc: func(t *testing.T, l Ledger) {
				for _, p := range l.Participants {
					if got := shareOf(t, l, 0, p); math.Abs(got-0.86) > epsilon {
						t.Errorf("%s share = %v, want 0.86", p, got)
					}
				}
				assertReconciles(t, l)
			},
		},
		{
			name:         "single participant gets unassigned items",
			items:        []models.Item{{Name: "Peanuts", Price: 2.58}},
			participants: []string{"Alice"},
			validateFunc: func(t *testing.T, l Ledger) {
				if got := shareOf(t, l, 0, "Alice"); got != 2.58 {
					t.Errorf("Alice share = %v, want 2.58", got)
				}
			},
		},
		{
			name:         "no participants",
			items:        []models.Item{{Name: "Yogurt", Price: 3.93}},
			participants: nil,
			meta:         models.OrderMeta{TaxAmount: 1.5},
			validateFunc: func(t *testing.T, l Ledger) {
				if l.Rows[0].Shares != nil {
					t.Errorf("item shares = %v, want none", l.Rows[0].Shares)
				}
				if len(l.PersonTotals) != 0 {
					t.Errorf("person totals = %v, want empty", l.PersonTotals)
				}
				if len(l.Rows) != 2 || l.Rows[1].Kind != TotalRow {
					t.Fatalf("rows = %+v, want item and total rows only", l.Rows)
				}
				if math.Abs(l.Rows[1].Total-5.43) > epsilon {
					t.Errorf("total = %v, want 5.43", l.Rows[1].Total)
				}
				if l.Rows[1].Shares != nil {
					t.Errorf("total shares = %v, want none", l.Rows[1].Shares)
				}
			},
		},
		{
			name: "tax is split evenly across all participants",
			items: []models.Item{
				{Name: "Cookies", Price: 5.98, Assigned: []string{"Alice"}},
				{Name: "Grapes", Price: 4.18, Assigned: []string{"Alice"}},
			},
			participants: []string{"Alice", "Bob", "Carol"},
			meta:         models.OrderMeta{OrderDate: "Oct 09, 2025", TaxAmount: 1.51},
			validateFunc: func(t *testing.T, l Ledger) {
				tax := l.Rows[2]
				if tax.Kind != TaxRow || tax.Label != TaxLabel || tax.Total != 1.51 {
					t.Fatalf("tax row = %+v", tax)
				}
				for i, p := range l.Participants {
					if math.Abs(tax.Shares[i]-1.51/3) > epsilon {
						t.Errorf("%s tax share = %v, want %v", p, tax.Shares[i], 1.51/3)
					}
				}
				if math.Abs(l.PersonTotals["Bob"]-1.51/3) > epsilon {
					t.Errorf("Bob total = %v, want tax share only", l.PersonTotals["Bob"])
				}
				if math.Abs(l.Total()-(10.16+1.51)) > epsilon {
					t.Errorf("total = %v, want 11.67", l.Total())
				}
				if l.OrderDate != "Oct 09, 2025" {
					t.Errorf("order date = %q", l.OrderDate)
				}
				assertReconciles(t, l)
			},
		},
		{
			name:         "stale and duplicate assignments",
			items:        []models.Item{{Name: "Tomato", Price: 0.56, Assigned: []string{"Ghost", "Bob", "Bob"}}},
			participants: []string{"Alice", "Bob"},
			validateFunc: func(t *testing.T, l Ledger) {
				if got := shareOf(t, l, 0, "Bob"); got != 0.56 {
					t.Errorf("Bob share = %v, want 0.56", got)
				}
				if _, ok := l.PersonTotals["Ghost"]; ok {
					t.Errorf("stale participant credited: %v", l.PersonTotals)
				}
			},
		},
		{
			name:         "only stale assignments fall back to everyone",
			items:        []models.Item{{Name: "Onions", Price: 1.96, Assigned: []string{"Ghost"}}},
			participants: []string{"Alice", "Bob"},
			validateFunc: func(t *testing.T, l Ledger) {
				if got := shareOf(t, l, 0, "Alice"); math.Abs(got-0.98) > epsilon {
					t.Errorf("Alice share = %v, want 0.98", got)
				}
			},
		},
		{
			name:         "no items",
			items:        nil,
			participants: []string{"Alice", "Bob"},
			meta:         models.OrderMeta{TaxAmount: 2},
			validateFunc: func(t *testing.T, l Ledger) {
				if len(l.Rows) != 2 {
					t.Fatalf("rows = %+v, want tax and total", l.Rows)
				}
				if l.PersonTotals["Alice"] != 1 || l.PersonTotals["Bob"] != 1 {
					t.Errorf("person totals = %v, want 1 each", l.PersonTotals)
				}
				if l.OrderDate != models.NoOrderDate {
					t.Errorf("order date = %q, want %q", l.OrderDate, models.NoOrderDate)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLedger(tt.items, tt.participants, tt.meta)
			tt.validateFunc(t, l)
		})
	}
}

func TestComputeLedgerReconciles(t *testing.T) {
	prices := []float64{5.98, 2.48, 4.18, 2.8, 0.56, 2.58, 2.97, 1.98, 3.93, 1.97, 1.97, 1.97, 4.97, 3.93, 1.67, 0.74, 0.74, 1.96, 3.94, 9.87}
	people := []string{"Alice", "Bob", "Carol"}
	assignments := [][]string{nil, {"Alice"}, {"Bob", "Carol"}, people, {"Carol"}, {"Alice", "Bob"}, {"Ghost"}}

	for n := 0; n <= len(people); n++ {
		items := make([]models.Item, len(prices))
		for i, p := range prices {
			items[i] = models.Item{Name: "item", Price: p, Assigned: assignments[i%len(assignments)]}
		}
		l := ComputeLedger(items, people[:n], models.OrderMeta{TaxAmount: 1.51})
		if n == 0 {
			continue // nobody to reconcile against
		}
		assertReconciles(t, l)
	}
}

func TestComputeLedgerDoesNotAliasInputs(t *testing.T) {
	items := []models.Item{{Name: "Rotini", Price: 0.74, Assigned: []string{"Alice"}}}
	participants := []string{"Alice", "Bob"}

	l := ComputeLedger(items, participants, models.OrderMeta{})
	participants[0] = "Mallory"
	items[0].Assigned[0] = "Bob"

	if l.Participants[0] != "Alice" {
		t.Errorf("ledger participants changed with input: %v", l.Participants)
	}
	if shareOf(t, l, 0, "Alice") != 0.74 {
		t.Errorf("ledger shares changed with input: %v", l.Rows[0].Shares)
	}
}
