package matrix

import (
	"bytes"
	"encoding/json"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Breakdown is the persisted and wire form of a grid:
//
//	{"sizes": [...], "colors": [{"id", "name", "unitPrice"}], "values": {...}, "grandTotal": n}
//
// Older records list colours as bare strings and may omit grandTotal.
type Breakdown struct {
	Sizes      []string                  `json:"sizes"`
	Colors     []WireColor               `json:"colors"`
	Values     map[string]map[string]int `json:"values"`
	GrandTotal *int                      `json:"grandTotal"`
}

// WireColor is one colour entry. UnitPrice is nil for legacy string entries.
type WireColor struct {
	ID        string
	Name      string
	UnitPrice *decimal.Decimal
}

type wireColorJSON struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	UnitPrice json.RawMessage `json:"unitPrice,omitempty"`
}

func (c WireColor) MarshalJSON() ([]byte, error) {
	out := wireColorJSON{ID: c.ID, Name: c.Name}
	if c.UnitPrice != nil {
		out.UnitPrice = json.RawMessage(c.UnitPrice.String())
	}
	return json.Marshal(out)
}

func (c *WireColor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*c = WireColor{}
		return json.Unmarshal(data, &c.Name)
	}
	var in wireColorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = WireColor{ID: in.ID, Name: in.Name}
	raw := bytes.TrimSpace(in.UnitPrice)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		d = decimal.Zero
	}
	price := normalizePrice(d)
	c.UnitPrice = &price
	return nil
}

func (b *Breakdown) UnmarshalJSON(data []byte) error {
	var in struct {
		Sizes           []string                  `json:"sizes"`
		Colors          []WireColor               `json:"colors"`
		Values          map[string]map[string]any `json:"values"`
		GrandTotal      *int                      `json:"grandTotal"`
		GrandTotalSnake *int                      `json:"grand_total"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*b = Breakdown{
		Sizes:      in.Sizes,
		Colors:     in.Colors,
		Values:     make(map[string]map[string]int, len(in.Values)),
		GrandTotal: in.GrandTotal,
	}
	if b.GrandTotal == nil {
		b.GrandTotal = in.GrandTotalSnake
	}
	for color, row := range in.Values {
		b.Values[color] = lo.MapValues(row, func(v any, _ string) int { return CoerceQty(v) })
	}
	return nil
}

// Load builds a grid from its wire form. Legacy colours without a unit price
// get defaultPrice.
func Load(b Breakdown, defaultPrice decimal.Decimal) Grid {
	colors := lo.Map(b.Colors, func(c WireColor, _ int) Color {
		price := defaultPrice
		if c.UnitPrice != nil {
			price = *c.UnitPrice
		}
		return Color{ID: c.ID, Name: c.Name, UnitPrice: price}
	})
	return NewGrid(b.Sizes, colors, b.Values)
}

// Wire converts g to its wire form with the grand quantity total filled in.
func (g Grid) Wire() Breakdown {
	total := g.GrandTotalQty()
	return Breakdown{
		Sizes: g.Sizes(),
		Colors: lo.Map(g.colors, func(c Color, _ int) WireColor {
			price := c.UnitPrice
			return WireColor{ID: c.ID, Name: c.Name, UnitPrice: &price}
		}),
		Values:     g.Values(),
		GrandTotal: &total,
	}
}
