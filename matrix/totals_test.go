package matrix

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalsScenario(t *testing.T) {
	g := blackGrid()

	assert.Equal(t, 15, g.RowTotal("Black"))
	assert.Equal(t, 10, g.ColTotal("S"))
	assert.Equal(t, 5, g.ColTotal("M"))
	assert.Equal(t, 15, g.GrandTotalQty())
	assert.Equal(t, "1500", g.GrandTotalAmount().String())

	totals := g.Totals()
	require.Len(t, totals.Rows, 1)
	assert.Equal(t, "Black", totals.Rows[0].Color)
	assert.Equal(t, 15, totals.Rows[0].Qty)
	assert.Equal(t, "1500", totals.Rows[0].Amount.String())
	assert.Equal(t, []ColumnTotal{{Size: "S", Qty: 10}, {Size: "M", Qty: 5}}, totals.Columns)
	assert.Equal(t, 15, totals.GrandTotalQty)
	assert.Equal(t, "1500", totals.GrandTotalAmount.String())
}

func TestTotalsWithFractionalPrices(t *testing.T) {
	g := twoColorGrid()

	assert.Equal(t, "1600", g.RowAmount("Black").String())
	assert.Equal(t, "483", g.RowAmount("Grey").String())
	assert.Equal(t, "2083", g.GrandTotalAmount().String())
	assert.Equal(t, "0", g.RowAmount("Navy").String())
}

func TestZeroPriceColors(t *testing.T) {
	g := NewGrid([]string{"S"}, []Color{{Name: "Black", UnitPrice: price("10")}, {Name: "Grey"}}, nil)
	assert.Equal(t, []string{"Grey"}, g.ZeroPriceColors())
}

// randomGrid mutates a small grid through a random sequence of operations.
func randomGrid(r *rand.Rand) Grid {
	g := New(decimal.NewFromInt(int64(r.Intn(500))))
	for step := 0; step < 40; step++ {
		sizes, colors := g.Sizes(), g.Colors()
		switch r.Intn(14) {
		case 0, 1, 2, 3:
			c := colors[r.Intn(len(colors))].Name
			s := sizes[r.Intn(len(sizes))]
			g = SetCell(g, c, s, strconv.Itoa(r.Intn(200)-20))
		case 4:
			g = AddSize(g)
		case 5:
			g = AddColor(g, decimal.NewFromFloat(float64(r.Intn(10000))/100))
		case 6:
			g, _ = RemoveSize(g, r.Intn(len(sizes)))
		case 7:
			g, _ = RenameSize(g, r.Intn(len(sizes)), sizes[r.Intn(len(sizes))]+"x")
		case 8:
			g, _ = UpdatePrice(g, r.Intn(len(colors)), strconv.Itoa(r.Intn(1000)))
		case 9:
			g, _ = RemoveColor(g, r.Intn(len(colors)))
		case 10:
			g, _ = RenameColor(g, r.Intn(len(colors)), colors[r.Intn(len(colors))].Name+"x")
		case 11:
			// may collide with another colour's name
			g, _ = RenameColor(g, r.Intn(len(colors)), colors[r.Intn(len(colors))].Name)
		case 12:
			g, _ = RenameSize(g, r.Intn(len(sizes)), sizes[r.Intn(len(sizes))])
		case 13:
			g, _ = ReorderColors(g, r.Intn(len(colors)), r.Intn(len(colors)))
		}
	}
	return g
}

func TestTotalsInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		g := randomGrid(r)
		totals := g.Totals()

		rowSum, colSum := 0, 0
		amount := decimal.Zero
		for _, c := range g.Colors() {
			rowSum += g.RowTotal(c.Name)
			amount = amount.Add(c.UnitPrice.Mul(decimal.NewFromInt(int64(g.RowTotal(c.Name)))))
		}
		for _, s := range g.Sizes() {
			colSum += g.ColTotal(s)
		}

		assert.Equal(t, rowSum, colSum)
		assert.Equal(t, rowSum, g.GrandTotalQty())
		assert.Equal(t, colSum, g.ColumnSumQty())
		assert.Equal(t, rowSum, totals.GrandTotalQty)
		assert.True(t, amount.Equal(g.GrandTotalAmount()), "amount %s vs %s", amount, g.GrandTotalAmount())
		assert.True(t, amount.Equal(totals.GrandTotalAmount))

		assert.Len(t, g.Sizes(), len(uniq(g.Sizes())))
		names := []string{}
		for _, c := range g.Colors() {
			names = append(names, c.Name)
		}
		assert.Len(t, names, len(uniq(names)))
		ids := []string{}
		for _, c := range g.Colors() {
			ids = append(ids, c.ID)
		}
		assert.Len(t, ids, len(uniq(ids)))
	}
}

func uniq(in []string) map[string]bool {
	out := map[string]bool{}
	for _, s := range in {
		out[s] = true
	}
	return out
}
