package matrix

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAll(t *testing.T) {
	var ops []Op
	err := json.Unmarshal([]byte(`[
		{"op": "setCell", "color": "Black", "size": "S", "value": "20"},
		{"op": "addSize"},
		{"op": "setCell", "color": "Black", "size": "Size3", "value": 4},
		{"op": "addColor"},
		{"op": "updatePrice", "index": 1, "value": "10"},
		{"op": "setCell", "color": "Color2", "size": "M", "value": 1},
		{"op": "renameColor", "index": 1, "label": "Navy"},
		{"op": "reorderColors", "from": 1, "to": 0}
	]`), &ops)
	require.NoError(t, err)

	g := blackGrid()
	next, failed, err := ApplyAll(g, decimal.NewFromInt(35), ops)
	require.NoError(t, err)
	assert.Equal(t, -1, failed)

	colors := next.Colors()
	require.Len(t, colors, 2)
	assert.Equal(t, "Navy", colors[0].Name)
	assert.Equal(t, "10", colors[0].UnitPrice.String())
	assert.Equal(t, 29, next.RowTotal("Black"))
	assert.Equal(t, 1, next.RowTotal("Navy"))
	assert.Equal(t, 30, next.GrandTotalQty())
	assert.Equal(t, "2910", next.GrandTotalAmount().String())

	// input untouched
	assert.Equal(t, 15, g.GrandTotalQty())
}

func TestApplyAllIsAtomic(t *testing.T) {
	g := blackGrid()
	ops := []Op{
		{Kind: OpSetCell, Color: "Black", Size: "S", Value: "1"},
		{Kind: OpRemoveColor, Index: 0},
	}

	next, failed, err := ApplyAll(g, decimal.Zero, ops)

	assert.ErrorIs(t, err, ErrLastColor)
	assert.True(t, IsRejection(err))
	assert.Equal(t, 1, failed)
	assert.Equal(t, g, next)
}

func TestApplyUnknownOp(t *testing.T) {
	g := blackGrid()
	next, failed, err := ApplyAll(g, decimal.Zero, []Op{{Kind: "explode"}})

	assert.ErrorIs(t, err, ErrUnknownOp)
	assert.False(t, IsRejection(err))
	assert.Equal(t, 0, failed)
	assert.Equal(t, g, next)
}

func TestApplyRemoveAndRenameSize(t *testing.T) {
	g := twoColorGrid()
	next, _, err := ApplyAll(g, decimal.Zero, []Op{
		{Kind: OpRenameSize, Index: 2, Label: "XL"},
		{Kind: OpRemoveSize, Index: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"M", "XL"}, next.Sizes())
	assert.Equal(t, 1, next.Qty("Black", "XL"))
	assert.Equal(t, 10, next.GrandTotalQty())
}
