package models

import (
	"strings"
	"time"
)

// PartyKind selects one of the directory lists.
type PartyKind string

const (
	KindBuyer    PartyKind = "buyer"
	KindSupplier PartyKind = "supplier"
	KindBillTo   PartyKind = "billto"
)

// Valid reports whether k is a known directory list.
func (k PartyKind) Valid() bool {
	return k == KindBuyer || k == KindSupplier || k == KindBillTo
}

// Party is a directory entry: a buyer, a supplier or a bill-to company.
type Party struct {
	ID             uint      `gorm:"primaryKey"`
	Kind           PartyKind `gorm:"index;not null"`
	CompanyName    string    `gorm:"not null"`
	Address1       string
	Address2       string
	Address3       string
	ContactName    string
	Phone          string
	Email          string
	GSTIN          string `gorm:"column:gstin"`
	Notes          string
	IsDefaultBuyer bool `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Party) TableName() string {
	return "parties"
}

// Info returns the snapshot of p that is copied into a purchase order.
func (p *Party) Info() PartyInfo {
	var lines []string
	for _, l := range []string{p.Address1, p.Address2, p.Address3} {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return PartyInfo{
		Company:      p.CompanyName,
		AddressLines: lines,
		GSTIN:        p.GSTIN,
		ContactName:  p.ContactName,
		Phone:        p.Phone,
		Email:        p.Email,
	}
}

// PartyInfo is a party as printed on a document. Purchase orders store a copy
// so later directory edits do not rewrite issued documents.
type PartyInfo struct {
	Company      string   `json:"company"`
	AddressLines []string `gorm:"serializer:json" json:"address_lines"`
	GSTIN        string   `gorm:"column:gstin" json:"gstin,omitempty"`
	ContactName  string   `json:"contact_name,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Email        string   `json:"email,omitempty"`
}

// StaticBuyer is printed when the directory has no default buyer.
var StaticBuyer = PartyInfo{
	Company:      "Newline Apparel",
	AddressLines: []string{"61, GKD Nagar, PN Palayam", "Coimbatore – 641037", "Tamil Nadu"},
	GSTIN:        "33AABCN1234F1Z5",
}
