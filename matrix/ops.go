package matrix

import (
	"errors"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Rejections. An operation that returns one of these also returns its input
// grid unchanged.
var (
	ErrLastSize        = errors.New("at least one size must remain")
	ErrLastColor       = errors.New("at least one colour must remain")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// IsRejection reports whether err is a rejected grid operation rather than a
// malformed request.
func IsRejection(err error) bool {
	return errors.Is(err, ErrLastSize) || errors.Is(err, ErrLastColor) || errors.Is(err, ErrIndexOutOfRange)
}

// SetCell stores the coerced quantity at (color, size). Unknown colours or
// sizes leave the grid as it is.
func SetCell(g Grid, color, size string, raw any) Grid {
	if g.ColorIndex(color) < 0 || g.SizeIndex(size) < 0 {
		return g
	}
	next := g.clone()
	row := next.values[color]
	if row == nil {
		row = map[string]int{}
		next.values[color] = row
	}
	row[size] = CoerceQty(raw)
	return next
}

// AddSize appends a generated size column. Existing cells are untouched.
func AddSize(g Grid) Grid {
	next := g.clone()
	label := nextLabel("Size", len(g.sizes), func(l string) bool { return g.SizeIndex(l) >= 0 })
	next.sizes = append(next.sizes, label)
	return next
}

// RemoveSize drops the size at i together with its cells in every row.
func RemoveSize(g Grid, i int) (Grid, error) {
	if len(g.sizes) <= 1 {
		return g, ErrLastSize
	}
	if i < 0 || i >= len(g.sizes) {
		return g, ErrIndexOutOfRange
	}
	next := g.clone()
	label := next.sizes[i]
	next.sizes = slices.Delete(next.sizes, i, i+1)
	for color, row := range next.values {
		delete(row, label)
		if len(row) == 0 {
			delete(next.values, color)
		}
	}
	return next, nil
}

// AddColor appends a generated colour row priced at defaultPrice.
func AddColor(g Grid, defaultPrice decimal.Decimal) Grid {
	next := g.clone()
	name := nextLabel("Color", len(g.colors), func(n string) bool { return g.ColorIndex(n) >= 0 })
	inUse := lo.Associate(g.colors, func(c Color) (string, bool) { return c.ID, true })
	next.colors = append(next.colors, Color{
		ID:        randomID(inUse),
		Name:      name,
		UnitPrice: normalizePrice(defaultPrice),
	})
	return next
}

// RemoveColor drops the colour at i and its whole row of cells.
func RemoveColor(g Grid, i int) (Grid, error) {
	if len(g.colors) <= 1 {
		return g, ErrLastColor
	}
	if i < 0 || i >= len(g.colors) {
		return g, ErrIndexOutOfRange
	}
	next := g.clone()
	delete(next.values, next.colors[i].Name)
	next.colors = slices.Delete(next.colors, i, i+1)
	return next, nil
}

// RenameSize relabels the size at i and moves its cells to the new label.
// When label is already used by another column, the moved cells overwrite
// that column's cells and the other column is dropped.
func RenameSize(g Grid, i int, label string) (Grid, error) {
	if i < 0 || i >= len(g.sizes) {
		return g, ErrIndexOutOfRange
	}
	old := g.sizes[i]
	if old == label {
		return g, nil
	}
	next := g.clone()
	for _, row := range next.values {
		if q, ok := row[old]; ok {
			row[label] = q
			delete(row, old)
		}
	}
	next.sizes[i] = label
	if j := indexOtherThan(next.sizes, label, i); j >= 0 {
		next.sizes = slices.Delete(next.sizes, j, j+1)
	}
	return next, nil
}

// RenameColor renames the colour at i, keeping its id and moving its row of
// cells to the new name. A colour already called name is merged away; its
// cells are replaced by the renamed row when the renamed colour has one.
func RenameColor(g Grid, i int, name string) (Grid, error) {
	if i < 0 || i >= len(g.colors) {
		return g, ErrIndexOutOfRange
	}
	old := g.colors[i].Name
	if old == name {
		return g, nil
	}
	next := g.clone()
	if row, ok := next.values[old]; ok {
		next.values[name] = row
		delete(next.values, old)
	}
	next.colors[i].Name = name
	names := lo.Map(next.colors, func(c Color, _ int) string { return c.Name })
	if j := indexOtherThan(names, name, i); j >= 0 {
		next.colors = slices.Delete(next.colors, j, j+1)
	}
	return next, nil
}

// UpdatePrice sets the unit price of the colour at i. Input that cannot be
// used as a price becomes 0.
func UpdatePrice(g Grid, i int, raw any) (Grid, error) {
	if i < 0 || i >= len(g.colors) {
		return g, ErrIndexOutOfRange
	}
	price, _ := CoercePrice(raw)
	next := g.clone()
	next.colors[i].UnitPrice = price
	return next, nil
}

// ReorderColors moves the colour at from to position to.
func ReorderColors(g Grid, from, to int) (Grid, error) {
	n := len(g.colors)
	if from < 0 || from >= n || to < 0 || to >= n {
		return g, ErrIndexOutOfRange
	}
	if from == to {
		return g, nil
	}
	next := g.clone()
	c := next.colors[from]
	next.colors = slices.Delete(next.colors, from, from+1)
	next.colors = slices.Insert(next.colors, to, c)
	return next, nil
}

func indexOtherThan(labels []string, label string, skip int) int {
	for j, l := range labels {
		if j != skip && l == label {
			return j
		}
	}
	return -1
}
