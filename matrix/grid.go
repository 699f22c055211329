// Package matrix keeps the size × colour quantity grid of a purchase order
// and derives its row, column and grand totals.
package matrix

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Sizes and colours a new purchase order starts with.
var (
	DefaultSizes  = []string{"S", "M", "L", "XL", "XXL", "XXXL"}
	DefaultColors = []string{"Black", "Grey Melange", "Charcoal Melange"}
)

// Color is one row of the grid.
// ID survives renames and reloads; Name keys the cells and is user-editable.
type Color struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
}

// Grid is the size × colour quantity matrix.
// A Grid is never modified in place: every operation returns a new value.
type Grid struct {
	sizes  []string
	colors []Color
	values map[string]map[string]int
}

// New returns the grid a fresh purchase order starts with.
func New(defaultPrice decimal.Decimal) Grid {
	colors := lo.Map(DefaultColors, func(name string, _ int) Color {
		return Color{Name: name, UnitPrice: defaultPrice}
	})
	return NewGrid(DefaultSizes, colors, nil)
}

// NewGrid builds a grid from raw parts and normalizes it: duplicate sizes and
// colours keep their first occurrence, missing or duplicate ids are replaced,
// prices are clamped and rounded, and cells outside the current sizes and
// colours are dropped. An empty size or colour list gets one generated entry.
func NewGrid(sizes []string, colors []Color, values map[string]map[string]int) Grid {
	g := Grid{
		sizes:  lo.Uniq(sizes),
		colors: make([]Color, 0, len(colors)),
		values: map[string]map[string]int{},
	}
	if len(g.sizes) == 0 {
		g.sizes = []string{"Size1"}
	}

	seenNames := map[string]bool{}
	inUse := map[string]bool{}
	for _, c := range colors {
		if seenNames[c.Name] {
			continue
		}
		seenNames[c.Name] = true
		c.UnitPrice = normalizePrice(c.UnitPrice)
		g.colors = append(g.colors, c)
	}
	if len(g.colors) == 0 {
		g.colors = append(g.colors, Color{Name: "Color1", UnitPrice: decimal.Zero})
	}
	var needID []int
	for i, c := range g.colors {
		if c.ID == "" || inUse[c.ID] {
			needID = append(needID, i)
			continue
		}
		inUse[c.ID] = true
	}
	for _, i := range needID {
		g.colors[i].ID = derivedID(g.colors[i].Name, inUse)
	}

	for _, c := range g.colors {
		row, ok := values[c.Name]
		if !ok {
			continue
		}
		kept := map[string]int{}
		for _, s := range g.sizes {
			if q, ok := row[s]; ok {
				kept[s] = max(q, 0)
			}
		}
		if len(kept) > 0 {
			g.values[c.Name] = kept
		}
	}
	return g
}

// Sizes returns the size labels in display order.
func (g Grid) Sizes() []string {
	return slices.Clone(g.sizes)
}

// Colors returns the colour rows in display order.
func (g Grid) Colors() []Color {
	return slices.Clone(g.colors)
}

// Qty returns the quantity at (color, size); absent cells are 0.
func (g Grid) Qty(color, size string) int {
	return g.values[color][size]
}

// Values returns a copy of the cell map keyed by colour name, then size label.
func (g Grid) Values() map[string]map[string]int {
	out := make(map[string]map[string]int, len(g.values))
	for color, row := range g.values {
		out[color] = cloneRow(row)
	}
	return out
}

// ColorIndex returns the position of the named colour, or -1.
func (g Grid) ColorIndex(name string) int {
	return slices.IndexFunc(g.colors, func(c Color) bool { return c.Name == name })
}

// SizeIndex returns the position of the size label, or -1.
func (g Grid) SizeIndex(label string) int {
	return slices.Index(g.sizes, label)
}

// ZeroPriceColors lists the colours whose unit price is zero.
func (g Grid) ZeroPriceColors() []string {
	zero := lo.Filter(g.colors, func(c Color, _ int) bool { return c.UnitPrice.IsZero() })
	return lo.Map(zero, func(c Color, _ int) string { return c.Name })
}

func (g Grid) clone() Grid {
	return Grid{
		sizes:  slices.Clone(g.sizes),
		colors: slices.Clone(g.colors),
		values: g.Values(),
	}
}

func cloneRow(row map[string]int) map[string]int {
	out := make(map[string]int, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// nextLabel returns prefix<n+1>, or the next free prefix<k> after it.
func nextLabel(prefix string, n int, taken func(string) bool) string {
	for k := n + 1; ; k++ {
		label := fmt.Sprintf("%s%d", prefix, k)
		if !taken(label) {
			return label
		}
	}
}
