// Package document turns a purchase order into its printable form.
package document

import (
	"fmt"
	"strings"

	"github.com/newlineapparel/pogen/format"
	"github.com/newlineapparel/pogen/matrix"
	"github.com/newlineapparel/pogen/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Line struct {
	StyleCode   string `json:"style_code"`
	Description string `json:"description"`
	FabricGSM   string `json:"fabric_gsm"`
	Colors      string `json:"colors"`
	SizeRange   string `json:"size_range"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
}

type MatrixRow struct {
	Color     string   `json:"color"`
	Cells     []string `json:"cells"`
	Total     string   `json:"total"`
	UnitPrice string   `json:"unit_price"`
	Amount    string   `json:"amount"`
	ZeroPrice bool     `json:"zero_price,omitempty"`
}

type Matrix struct {
	Sizes            []string    `json:"sizes"`
	Rows             []MatrixRow `json:"rows"`
	ColumnTotals     []string    `json:"column_totals"`
	GrandTotalQty    string      `json:"grand_total_qty"`
	GrandTotalAmount string      `json:"grand_total_amount"`
}

type Signatory struct {
	Heading     string `json:"heading"`
	Designation string `json:"designation,omitempty"`
	Name        string `json:"name"`
}

// Document is a purchase order with every value formatted for print.
type Document struct {
	Title      string           `json:"title"`
	DocType    models.DocType   `json:"doc_type"`
	Number     string           `json:"number"`
	NumberText string           `json:"number_label"`
	LogoURL    string           `json:"logo_url,omitempty"`
	BillTo     models.PartyInfo `json:"bill_to"`
	Buyer      models.PartyInfo `json:"buyer"`
	Supplier   models.PartyInfo `json:"supplier"`
	Meta       []Field          `json:"meta"`
	Lines      []Line           `json:"lines"`
	Subtotal   string           `json:"subtotal"`
	Matrix     Matrix           `json:"matrix"`
	Warnings   []string         `json:"warnings,omitempty"`
	Packing    []Field          `json:"packing,omitempty"`
	Terms      []Field          `json:"terms,omitempty"`
	Signatures [2]Signatory     `json:"signatures"`
}

// Assemble builds the document for po. The logo on the order wins over
// defaultLogo; an order without a buyer prints the built-in one.
func Assemble(po *models.PurchaseOrder, defaultPrice decimal.Decimal, defaultLogo string) Document {
	g := po.Grid(defaultPrice)
	prefix := string(po.DocType)
	if prefix == "" {
		prefix = string(models.DocPurchaseOrder)
	}

	buyer := po.Buyer
	if strings.TrimSpace(buyer.Company) == "" {
		buyer = models.StaticBuyer
	}

	d := Document{
		Title:      po.DocType.Title(),
		DocType:    models.DocType(prefix),
		Number:     po.PONumber,
		NumberText: prefix + " No",
		LogoURL:    lo.Ternary(po.LogoURL != "", po.LogoURL, defaultLogo),
		BillTo:     po.BillTo,
		Buyer:      buyer,
		Supplier:   po.Supplier,
		Meta: nonEmpty(
			Field{prefix + " Date", format.Date(po.PODate)},
			Field{"Delivery", format.Date(po.DeliveryDate)},
			Field{"Payment", po.PaymentTerms},
			Field{"Delivery Terms", po.DeliveryTerms},
		),
		Lines: lo.Map(po.OrderLines, func(l models.OrderLine, _ int) Line {
			return Line{
				StyleCode:   l.StyleCode,
				Description: l.ProductDescription,
				FabricGSM:   l.FabricGSM,
				Colors:      strings.Join(l.Colors, ", "),
				SizeRange:   strings.Join(l.SizeRange, ", "),
				Quantity:    format.Qty(l.Quantity),
				UnitPrice:   format.INR(l.UnitPrice),
				Amount:      format.INR(l.Amount()),
			}
		}),
		Subtotal: format.INR(po.Subtotal()),
		Matrix:   assembleMatrix(g),
		Packing: nonEmpty(
			Field{"Folding", po.Packing.Folding},
			Field{"Packing Type", po.Packing.PackingType},
			Field{"Size & Packing", po.Packing.SizePacking},
			Field{"Polybag", po.Packing.Polybag},
			Field{"Carton/Bag Markings", po.Packing.CartonBagMarkings},
			Field{"Packing Ratio", po.Packing.PackingRatio},
		),
		Terms: nonEmpty(
			Field{"QC", po.Terms.QC},
			Field{"Labels/Tags", po.Terms.LabelsTags},
			Field{"Shortage/Excess", po.Terms.ShortageExcess},
			Field{"Penalty", po.Terms.Penalty},
			Field{"Additional Notes", po.Terms.Notes},
		),
		Signatures: [2]Signatory{
			signatory("For "+buyer.Company, po.Authorisation.BuyerDesignation, po.Authorisation.BuyerName),
			signatory("For Supplier/Factory", po.Authorisation.SupplierDesignation, po.Authorisation.SupplierName),
		},
	}

	if zero := g.ZeroPriceColors(); len(zero) > 0 {
		d.Warnings = append(d.Warnings, "Unit price is zero for: "+strings.Join(zero, ", "))
	}
	if total, ordered := g.GrandTotalQty(), po.OrderQty(); total != ordered {
		d.Warnings = append(d.Warnings, fmt.Sprintf(
			"Size–colour total (%s) does not match the order quantity (%s)",
			format.Qty(total), format.Qty(ordered)))
	}
	return d
}

func assembleMatrix(g matrix.Grid) Matrix {
	t := g.Totals()
	sizes := g.Sizes()
	return Matrix{
		Sizes: sizes,
		Rows: lo.Map(t.Rows, func(r matrix.RowTotal, _ int) MatrixRow {
			return MatrixRow{
				Color: r.Color,
				Cells: lo.Map(sizes, func(s string, _ int) string {
					return format.Qty(g.Qty(r.Color, s))
				}),
				Total:     format.Qty(r.Qty),
				UnitPrice: format.INR(r.UnitPrice),
				Amount:    format.INR(r.Amount),
				ZeroPrice: r.UnitPrice.IsZero(),
			}
		}),
		ColumnTotals: lo.Map(t.Columns, func(c matrix.ColumnTotal, _ int) string {
			return format.Qty(c.Qty)
		}),
		GrandTotalQty:    format.Qty(t.GrandTotalQty),
		GrandTotalAmount: format.INR(t.GrandTotalAmount),
	}
}

func signatory(heading, designation, name string) Signatory {
	s := Signatory{Heading: heading, Designation: designation, Name: "Authorised Signatory"}
	if name != "" {
		s.Name = "Name: " + name
	}
	return s
}

func nonEmpty(fields ...Field) []Field {
	return lo.Filter(fields, func(f Field, _ int) bool {
		return strings.TrimSpace(f.Value) != ""
	})
}
