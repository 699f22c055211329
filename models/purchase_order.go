package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/newlineapparel/pogen/matrix"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocType tells a purchase order from a proforma invoice; both share one shape.
type DocType string

const (
	DocPurchaseOrder   DocType = "PO"
	DocProformaInvoice DocType = "PI"
)

// Title is the heading printed on the document.
func (d DocType) Title() string {
	if d == DocProformaInvoice {
		return "Proforma Invoice"
	}
	return "Purchase Order"
}

// ErrSyncNeedsSingleLine is returned when matrix quantities cannot be copied
// to the order because it has more than one order line.
var ErrSyncNeedsSingleLine = errors.New("quantity sync works with a single order line only")

// PurchaseOrder is a PO or PI document with its order lines and size–colour
// breakdown.
type PurchaseOrder struct {
	ID            string           `gorm:"primaryKey;size:36"`
	DocType       DocType          `gorm:"size:2;not null;default:PO"`
	PONumber      string           `gorm:"column:po_number;index;not null"`
	PODate        string           `gorm:"column:po_date"`
	BillTo        PartyInfo        `gorm:"embedded;embeddedPrefix:bill_to_"`
	Buyer         PartyInfo        `gorm:"embedded;embeddedPrefix:buyer_"`
	Supplier      PartyInfo        `gorm:"embedded;embeddedPrefix:supplier_"`
	DeliveryDate  string
	DeliveryTerms string
	PaymentTerms  string
	Currency      string           `gorm:"size:3;not null;default:INR"`
	OrderLines    []OrderLine      `gorm:"foreignKey:OrderID"`
	Breakdown     matrix.Breakdown `gorm:"column:size_colour_breakdown;type:text;serializer:json"`
	Packing       Packing          `gorm:"type:text;serializer:json"`
	Terms         OtherTerms       `gorm:"type:text;serializer:json"`
	Authorisation Authorisation    `gorm:"type:text;serializer:json"`
	LogoURL       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (po *PurchaseOrder) TableName() string {
	return "purchase_orders"
}

func (po *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if po.ID == "" {
		po.ID = uuid.NewString()
	}
	if po.DocType == "" {
		po.DocType = DocPurchaseOrder
	}
	if po.Currency == "" {
		po.Currency = "INR"
	}
	return nil
}

// OrderLine is one style on the order summary.
type OrderLine struct {
	ID                 uint            `gorm:"primaryKey"`
	OrderID            string          `gorm:"size:36;index;not null"`
	Position           int             `gorm:"not null;default:0"`
	StyleCode          string
	ProductDescription string
	FabricGSM          string          `gorm:"column:fabric_gsm"`
	Colors             []string        `gorm:"type:text;serializer:json"`
	SizeRange          []string        `gorm:"type:text;serializer:json"`
	Quantity           int             `gorm:"not null;default:0"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Unit               string          `gorm:"not null;default:pcs"`
}

func (l *OrderLine) TableName() string {
	return "order_lines"
}

// Amount is quantity × unit price.
func (l OrderLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Packing holds the packing instructions section.
type Packing struct {
	Folding           string `json:"folding,omitempty"`
	PackingType       string `json:"packing_type,omitempty"`
	SizePacking       string `json:"size_packing,omitempty"`
	Polybag           string `json:"polybag,omitempty"`
	CartonBagMarkings string `json:"carton_bag_markings,omitempty"`
	PackingRatio      string `json:"packing_ratio,omitempty"`
}

// OtherTerms holds the other terms section.
type OtherTerms struct {
	QC             string `json:"qc,omitempty"`
	LabelsTags     string `json:"labels_tags,omitempty"`
	ShortageExcess string `json:"shortage_excess,omitempty"`
	Penalty        string `json:"penalty,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Authorisation holds the signatory block.
type Authorisation struct {
	BuyerDesignation    string `json:"buyer_designation,omitempty"`
	BuyerName           string `json:"buyer_name,omitempty"`
	SupplierDesignation string `json:"supplier_designation,omitempty"`
	SupplierName        string `json:"supplier_name,omitempty"`
}

// Grid loads the stored breakdown. Legacy colours without a price get
// defaultPrice.
func (po *PurchaseOrder) Grid(defaultPrice decimal.Decimal) matrix.Grid {
	return matrix.Load(po.Breakdown, defaultPrice)
}

// SetGrid stores g as the order's breakdown.
func (po *PurchaseOrder) SetGrid(g matrix.Grid) {
	po.Breakdown = g.Wire()
}

// OrderQty sums the quantities of all order lines.
func (po *PurchaseOrder) OrderQty() int {
	return lo.SumBy(po.OrderLines, func(l OrderLine) int { return l.Quantity })
}

// Subtotal sums the amounts of all order lines.
func (po *PurchaseOrder) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range po.OrderLines {
		total = total.Add(l.Amount())
	}
	return total
}

// MatrixMismatch reports whether the matrix grand total differs from the
// quantity ordered on the order lines.
func (po *PurchaseOrder) MatrixMismatch(defaultPrice decimal.Decimal) bool {
	return po.Grid(defaultPrice).GrandTotalQty() != po.OrderQty()
}

// SyncQuantitiesFromMatrix copies the matrix grand total into the order's
// single order line.
func (po *PurchaseOrder) SyncQuantitiesFromMatrix(defaultPrice decimal.Decimal) error {
	if len(po.OrderLines) != 1 {
		return ErrSyncNeedsSingleLine
	}
	po.OrderLines[0].Quantity = po.Grid(defaultPrice).GrandTotalQty()
	return nil
}
