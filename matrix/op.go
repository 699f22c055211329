package matrix

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// OpKind names a grid operation in a request body.
type OpKind string

const (
	OpSetCell       OpKind = "setCell"
	OpAddSize       OpKind = "addSize"
	OpRemoveSize    OpKind = "removeSize"
	OpAddColor      OpKind = "addColor"
	OpRemoveColor   OpKind = "removeColor"
	OpRenameSize    OpKind = "renameSize"
	OpRenameColor   OpKind = "renameColor"
	OpUpdatePrice   OpKind = "updatePrice"
	OpReorderColors OpKind = "reorderColors"
)

// ErrUnknownOp is returned for an operation kind this package does not know.
var ErrUnknownOp = errors.New("unknown matrix operation")

// Op is one serialized grid operation. Which fields matter depends on Kind:
// setCell uses Color, Size and Value; the remove, rename and price operations
// use Index; renames use Label; updatePrice uses Value; reorderColors uses
// From and To.
type Op struct {
	Kind  OpKind `json:"op"`
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
	Value any    `json:"value,omitempty"`
	Index int    `json:"index,omitempty"`
	Label string `json:"label,omitempty"`
	From  int    `json:"from,omitempty"`
	To    int    `json:"to,omitempty"`
}

// Apply runs op against g.
func (op Op) Apply(g Grid, defaultPrice decimal.Decimal) (Grid, error) {
	switch op.Kind {
	case OpSetCell:
		return SetCell(g, op.Color, op.Size, op.Value), nil
	case OpAddSize:
		return AddSize(g), nil
	case OpRemoveSize:
		return RemoveSize(g, op.Index)
	case OpAddColor:
		return AddColor(g, defaultPrice), nil
	case OpRemoveColor:
		return RemoveColor(g, op.Index)
	case OpRenameSize:
		return RenameSize(g, op.Index, op.Label)
	case OpRenameColor:
		return RenameColor(g, op.Index, op.Label)
	case OpUpdatePrice:
		return UpdatePrice(g, op.Index, op.Value)
	case OpReorderColors:
		return ReorderColors(g, op.From, op.To)
	default:
		return g, fmt.Errorf("%w: %q", ErrUnknownOp, op.Kind)
	}
}

// ApplyAll runs ops in order. If any op fails, the original grid is returned
// together with the index of the failing op and its error, so callers never
// see a partially applied batch.
func ApplyAll(g Grid, defaultPrice decimal.Decimal, ops []Op) (Grid, int, error) {
	next := g
	for i, op := range ops {
		var err error
		next, err = op.Apply(next, defaultPrice)
		if err != nil {
			return g, i, err
		}
	}
	return next, -1, nil
}
