package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitshare/internal/models"
)

func TestFormatTable(t *testing.T) {
	l := ComputeLedger(
		[]models.Item{
			{Name: "Bread", Price: 2.48},
			{Name: "Chips", Price: 1.97, Assigned: []string{"Alice", "Bob", "Carol"}},
		},
		[]string{"Alice", "Bob", "Carol"},
		models.OrderMeta{OrderDate: "Oct 09, 2025", TaxAmount: 1},
	)

	table := FormatTable(l)
	require.Len(t, table.Rows, 6)

	assert.Equal(t, []any{OrderDateCaption, "Oct 09, 2025"}, table.Values()[0])
	assert.Equal(t, []any{ItemHeader, TotalHeader, "Alice", "Bob", "Carol"}, table.Values()[1])
	assert.Equal(t, []any{"Bread", 2.48, 0.83, 0.83, 0.83}, table.Values()[2])
	assert.Equal(t, []any{"Chips", 1.97, 0.66, 0.66, 0.66}, table.Values()[3])
	assert.Equal(t, []any{TaxLabel, 1.0, 0.33, 0.33, 0.33}, table.Values()[4])
	assert.Equal(t, []any{TotalLabel, 5.45, 1.82, 1.82, 1.82}, table.Values()[5])

	for _, c := range table.Rows[2] {
		assert.False(t, c.Bold, "item rows are plain")
	}
	for _, i := range []int{0, 1, 4, 5} {
		for _, c := range table.Rows[i] {
			assert.True(t, c.Bold, "row %d is emphasised", i)
		}
	}
}

func TestFormatTableWithoutParticipants(t *testing.T) {
	l := ComputeLedger([]models.Item{{Name: "Milk", Price: 2.97}}, nil, models.OrderMeta{})

	values := FormatTable(l).Values()
	require.Len(t, values, 4)
	assert.Equal(t, []any{ItemHeader, TotalHeader}, values[1])
	assert.Equal(t, []any{"Milk", 2.97}, values[2])
	assert.Equal(t, []any{TotalLabel, 2.97}, values[3])
}

func TestMarkedValues(t *testing.T) {
	l := ComputeLedger([]models.Item{{Name: "Milk", Price: 2.5}}, []string{"Alice"}, models.OrderMeta{OrderDate: "today", TaxAmount: 0.5})

	marked := FormatTable(l).MarkedValues()
	assert.Equal(t, []any{"**Order Date:**", "**today**"}, marked[0])
	assert.Equal(t, []any{"**Item**", "**Total Price**", "**Alice**"}, marked[1])
	assert.Equal(t, []any{"Milk", 2.5, 2.5}, marked[2])
	assert.Equal(t, []any{"**Tax**", "**0.50**", "**0.50**"}, marked[3])
	assert.Equal(t, []any{"**Total**", "**3.00**", "**3.00**"}, marked[4])
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{2.97 / 3, 0.99},
		{10.0 / 3, 3.33},
		{-1.005, -1.01},
		{-0.001, 0},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundCents(tt.in), "RoundCents(%v)", tt.in)
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "3.00", Cell{Value: 3.0}.String())
	assert.Equal(t, "Alice", Cell{Value: "Alice"}.String())
	assert.Equal(t, "", Cell{}.String())
}
