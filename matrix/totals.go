package matrix

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RowTotal is the derived total of one colour row.
type RowTotal struct {
	ColorID   string
	Color     string
	Qty       int
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}

// ColumnTotal is the derived total of one size column.
type ColumnTotal struct {
	Size string
	Qty  int
}

// Totals holds every derived figure of a grid. It is recomputed from the
// cells on each call and never stored.
type Totals struct {
	Rows             []RowTotal
	Columns          []ColumnTotal
	GrandTotalQty    int
	GrandTotalAmount decimal.Decimal
}

// RowTotal sums the cells of the named colour across all sizes.
func (g Grid) RowTotal(color string) int {
	return lo.SumBy(g.sizes, func(size string) int { return g.Qty(color, size) })
}

// ColTotal sums the cells of one size across all colours.
func (g Grid) ColTotal(size string) int {
	return lo.SumBy(g.colors, func(c Color) int { return g.Qty(c.Name, size) })
}

// RowAmount is RowTotal × unit price of the named colour.
func (g Grid) RowAmount(color string) decimal.Decimal {
	i := g.ColorIndex(color)
	if i < 0 {
		return decimal.Zero
	}
	return g.colors[i].UnitPrice.Mul(decimal.NewFromInt(int64(g.RowTotal(color))))
}

// GrandTotalQty sums all row totals.
func (g Grid) GrandTotalQty() int {
	return lo.SumBy(g.colors, func(c Color) int { return g.RowTotal(c.Name) })
}

// ColumnSumQty sums all column totals. It always equals GrandTotalQty.
func (g Grid) ColumnSumQty() int {
	return lo.SumBy(g.sizes, g.ColTotal)
}

// GrandTotalAmount sums all row amounts.
func (g Grid) GrandTotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, c := range g.colors {
		total = total.Add(g.RowAmount(c.Name))
	}
	return total
}

// Totals computes rows, columns and grand totals in one pass over the grid.
func (g Grid) Totals() Totals {
	t := Totals{
		Rows:             make([]RowTotal, 0, len(g.colors)),
		Columns:          make([]ColumnTotal, 0, len(g.sizes)),
		GrandTotalAmount: decimal.Zero,
	}
	cols := make([]int, len(g.sizes))
	for _, c := range g.colors {
		qty := 0
		for j, s := range g.sizes {
			q := g.Qty(c.Name, s)
			qty += q
			cols[j] += q
		}
		amount := c.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		t.Rows = append(t.Rows, RowTotal{
			ColorID:   c.ID,
			Color:     c.Name,
			Qty:       qty,
			UnitPrice: c.UnitPrice,
			Amount:    amount,
		})
		t.GrandTotalQty += qty
		t.GrandTotalAmount = t.GrandTotalAmount.Add(amount)
	}
	for j, s := range g.sizes {
		t.Columns = append(t.Columns, ColumnTotal{Size: s, Qty: cols[j]})
	}
	return t
}
