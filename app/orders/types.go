package orders

import (
	"encoding/json"
	"time"

	"github.com/newlineapparel/pogen/matrix"
	"github.com/newlineapparel/pogen/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type Response struct {
	Total  int     `json:"total"`
	Orders []Order `json:"orders"`
}

type OrderLine struct {
	StyleCode          string   `json:"style_code"`
	ProductDescription string   `json:"product_description"`
	FabricGSM          string   `json:"fabric_gsm"`
	Colors             []string `json:"colors"`
	SizeRange          []string `json:"size_range"`
	Quantity           int      `json:"quantity"`
	UnitPrice          float64  `json:"unit_price"`
	Amount             float64  `json:"amount"`
	Unit               string   `json:"unit"`
}

type RowTotal struct {
	ColorID   string  `json:"color_id"`
	Color     string  `json:"color"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Amount    float64 `json:"amount"`
}

type ColumnTotal struct {
	Size string `json:"size"`
	Qty  int    `json:"qty"`
}

type MatrixTotals struct {
	Rows             []RowTotal    `json:"rows"`
	Columns          []ColumnTotal `json:"columns"`
	GrandTotalQty    int           `json:"grand_total_qty"`
	GrandTotalAmount float64       `json:"grand_total_amount"`
	ZeroPriceColors  []string      `json:"zero_price_colors"`
}

type Order struct {
	ID             string               `json:"id"`
	DocType        models.DocType       `json:"doc_type"`
	PONumber       string               `json:"po_number"`
	PODate         string               `json:"po_date"`
	BillTo         models.PartyInfo     `json:"bill_to"`
	Buyer          models.PartyInfo     `json:"buyer"`
	Supplier       models.PartyInfo     `json:"supplier"`
	DeliveryDate   string               `json:"delivery_date"`
	DeliveryTerms  string               `json:"delivery_terms"`
	PaymentTerms   string               `json:"payment_terms"`
	Currency       string               `json:"currency"`
	OrderLines     []OrderLine          `json:"order_lines"`
	Breakdown      matrix.Breakdown     `json:"size_colour_breakdown"`
	MatrixTotals   MatrixTotals         `json:"matrix_totals"`
	OrderTotalQty  int                  `json:"order_total_qty"`
	MatrixMismatch bool                 `json:"matrix_mismatch"`
	Subtotal       float64              `json:"subtotal"`
	Packing        models.Packing       `json:"packing_instructions"`
	Terms          models.OtherTerms    `json:"other_terms"`
	Authorisation  models.Authorisation `json:"authorisation"`
	LogoURL        string               `json:"logo_url,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// OrderLineInput is an order line in a request body. Prices may be sent as
// numbers or strings.
type OrderLineInput struct {
	StyleCode          string          `json:"style_code"`
	ProductDescription string          `json:"product_description"`
	FabricGSM          string          `json:"fabric_gsm"`
	Colors             []string        `json:"colors"`
	SizeRange          []string        `json:"size_range"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	Unit               string          `json:"unit"`
}

// OrderInput is the body of create and update requests. On update it is
// pre-filled from the stored order, so absent keys keep their value.
// A key that is present replaces the whole field, see decodeUpdate.
type OrderInput struct {
	DocType       models.DocType       `json:"doc_type"`
	PONumber      string               `json:"po_number"`
	PODate        string               `json:"po_date"`
	BillTo        models.PartyInfo     `json:"bill_to"`
	Buyer         *models.PartyInfo    `json:"buyer"`
	Supplier      models.PartyInfo     `json:"supplier"`
	DeliveryDate  string               `json:"delivery_date"`
	DeliveryTerms string               `json:"delivery_terms"`
	PaymentTerms  string               `json:"payment_terms"`
	Currency      string               `json:"currency"`
	OrderLines    []OrderLineInput     `json:"order_lines"`
	Breakdown     *matrix.Breakdown    `json:"size_colour_breakdown"`
	Packing       models.Packing       `json:"packing_instructions"`
	Terms         models.OtherTerms    `json:"other_terms"`
	Authorisation models.Authorisation `json:"authorisation"`
	LogoURL       string               `json:"logo_url"`
}

type MatrixRequest struct {
	Ops []matrix.Op `json:"ops"`
}

type MatrixResponse struct {
	// Status is "ok" or "rejected".
	Status    string           `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	FailedOp  *int             `json:"failed_op,omitempty"`
	Breakdown matrix.Breakdown `json:"size_colour_breakdown"`
	Totals    MatrixTotals     `json:"matrix_totals"`
	Mismatch  bool             `json:"matrix_mismatch"`
}

func toTotals(g matrix.Grid) MatrixTotals {
	t := g.Totals()
	return MatrixTotals{
		Rows: lo.Map(t.Rows, func(r matrix.RowTotal, _ int) RowTotal {
			return RowTotal{
				ColorID:   r.ColorID,
				Color:     r.Color,
				Qty:       r.Qty,
				UnitPrice: r.UnitPrice.InexactFloat64(),
				Amount:    r.Amount.InexactFloat64(),
			}
		}),
		Columns: lo.Map(t.Columns, func(c matrix.ColumnTotal, _ int) ColumnTotal {
			return ColumnTotal{Size: c.Size, Qty: c.Qty}
		}),
		GrandTotalQty:    t.GrandTotalQty,
		GrandTotalAmount: t.GrandTotalAmount.InexactFloat64(),
		ZeroPriceColors:  g.ZeroPriceColors(),
	}
}

func toOrder(po *models.PurchaseOrder, defaultPrice decimal.Decimal) Order {
	g := po.Grid(defaultPrice)
	return Order{
		ID:            po.ID,
		DocType:       po.DocType,
		PONumber:      po.PONumber,
		PODate:        po.PODate,
		BillTo:        po.BillTo,
		Buyer:         po.Buyer,
		Supplier:      po.Supplier,
		DeliveryDate:  po.DeliveryDate,
		DeliveryTerms: po.DeliveryTerms,
		PaymentTerms:  po.PaymentTerms,
		Currency:      po.Currency,
		OrderLines: lo.Map(po.OrderLines, func(l models.OrderLine, _ int) OrderLine {
			return OrderLine{
				StyleCode:          l.StyleCode,
				ProductDescription: l.ProductDescription,
				FabricGSM:          l.FabricGSM,
				Colors:             l.Colors,
				SizeRange:          l.SizeRange,
				Quantity:           l.Quantity,
				UnitPrice:          l.UnitPrice.InexactFloat64(),
				Amount:             l.Amount().InexactFloat64(),
				Unit:               l.Unit,
			}
		}),
		Breakdown:      g.Wire(),
		MatrixTotals:   toTotals(g),
		OrderTotalQty:  po.OrderQty(),
		MatrixMismatch: g.GrandTotalQty() != po.OrderQty(),
		Subtotal:       po.Subtotal().InexactFloat64(),
		Packing:        po.Packing,
		Terms:          po.Terms,
		Authorisation:  po.Authorisation,
		LogoURL:        po.LogoURL,
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	}
}

func inputFromOrder(po *models.PurchaseOrder) OrderInput {
	buyer := po.Buyer
	return OrderInput{
		DocType:       po.DocType,
		PONumber:      po.PONumber,
		PODate:        po.PODate,
		BillTo:        po.BillTo,
		Buyer:         &buyer,
		Supplier:      po.Supplier,
		DeliveryDate:  po.DeliveryDate,
		DeliveryTerms: po.DeliveryTerms,
		PaymentTerms:  po.PaymentTerms,
		Currency:      po.Currency,
		OrderLines: lo.Map(po.OrderLines, func(l models.OrderLine, _ int) OrderLineInput {
			return OrderLineInput{
				StyleCode:          l.StyleCode,
				ProductDescription: l.ProductDescription,
				FabricGSM:          l.FabricGSM,
				Colors:             l.Colors,
				SizeRange:          l.SizeRange,
				Quantity:           l.Quantity,
				UnitPrice:          l.UnitPrice,
				Unit:               l.Unit,
			}
		}),
		Packing:       po.Packing,
		Terms:         po.Terms,
		Authorisation: po.Authorisation,
		LogoURL:       po.LogoURL,
	}
}

// decodeUpdate decodes a partial update body onto in. Every top-level key
// present in body resets its field before decoding, so a new supplier or a
// new list of order lines never inherits values from the stored ones.
func (in *OrderInput) decodeUpdate(body []byte) error {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(body, &present); err != nil {
		return err
	}
	for key := range present {
		in.reset(key)
	}
	return json.Unmarshal(body, in)
}

func (in *OrderInput) reset(key string) {
	switch key {
	case "doc_type":
		in.DocType = ""
	case "po_number":
		in.PONumber = ""
	case "po_date":
		in.PODate = ""
	case "bill_to":
		in.BillTo = models.PartyInfo{}
	case "buyer":
		in.Buyer = nil
	case "supplier":
		in.Supplier = models.PartyInfo{}
	case "delivery_date":
		in.DeliveryDate = ""
	case "delivery_terms":
		in.DeliveryTerms = ""
	case "payment_terms":
		in.PaymentTerms = ""
	case "currency":
		in.Currency = ""
	case "order_lines":
		in.OrderLines = nil
	case "size_colour_breakdown":
		in.Breakdown = nil
	case "packing_instructions":
		in.Packing = models.Packing{}
	case "other_terms":
		in.Terms = models.OtherTerms{}
	case "authorisation":
		in.Authorisation = models.Authorisation{}
	case "logo_url":
		in.LogoURL = ""
	}
}

// apply copies the input onto po. The breakdown is handled by the caller.
func (in OrderInput) apply(po *models.PurchaseOrder) {
	if in.DocType != "" {
		po.DocType = in.DocType
	}
	if in.Currency != "" {
		po.Currency = in.Currency
	}
	po.PONumber = in.PONumber
	po.PODate = in.PODate
	po.BillTo = in.BillTo
	if in.Buyer != nil {
		po.Buyer = *in.Buyer
	}
	po.Supplier = in.Supplier
	po.DeliveryDate = in.DeliveryDate
	po.DeliveryTerms = in.DeliveryTerms
	po.PaymentTerms = in.PaymentTerms
	po.OrderLines = lo.Map(in.OrderLines, func(l OrderLineInput, _ int) models.OrderLine {
		price, _ := matrix.CoercePrice(l.UnitPrice)
		return models.OrderLine{
			StyleCode:          l.StyleCode,
			ProductDescription: l.ProductDescription,
			FabricGSM:          l.FabricGSM,
			Colors:             l.Colors,
			SizeRange:          l.SizeRange,
			Quantity:           max(l.Quantity, 0),
			UnitPrice:          price,
			Unit:               l.Unit,
		}
	})
	po.Packing = in.Packing
	po.Terms = in.Terms
	po.Authorisation = in.Authorisation
	po.LogoURL = in.LogoURL
}
