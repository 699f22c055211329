package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newlineapparel/pogen/matrix"
	"github.com/newlineapparel/pogen/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func newTestInvoice() *models.PurchaseOrder {
	po := &models.PurchaseOrder{
		ID:            "pi-1",
		DocType:       models.DocProformaInvoice,
		PONumber:      "PI-7",
		PODate:        "2024-03-05",
		DeliveryDate:  "2024-04-20",
		PaymentTerms:  "50% advance",
		DeliveryTerms: "Ex-factory",
		BillTo:        models.PartyInfo{Company: "Newline Retail", AddressLines: []string{"Chennai"}},
		Supplier:      models.PartyInfo{Company: "Sree Textiles", GSTIN: "33AAAAA0000A1Z5", Phone: "98400 00000"},
		OrderLines: []models.OrderLine{{
			StyleCode:          "TS-01",
			ProductDescription: "Crew neck tee",
			FabricGSM:          "Cotton 180",
			Colors:             []string{"Black", "White"},
			SizeRange:          []string{"S", "M"},
			Quantity:           1500,
			UnitPrice:          decimal.NewFromInt(250),
			Unit:               "pcs",
		}},
		Packing:       models.Packing{Folding: "Half fold", Polybag: "Individual"},
		Authorisation: models.Authorisation{SupplierName: "R. Kumar"},
	}
	po.SetGrid(matrix.NewGrid(
		[]string{"S", "M"},
		[]matrix.Color{
			{Name: "Black", UnitPrice: decimal.NewFromInt(250)},
			{Name: "White", UnitPrice: decimal.Zero},
		},
		map[string]map[string]int{
			"Black": {"S": 1000, "M": 400},
			"White": {"S": 100},
		},
	))
	return po
}

type stubOrders struct {
	po  *models.PurchaseOrder
	err error
}

func (s stubOrders) GetByID(id string) (*models.PurchaseOrder, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.po == nil || s.po.ID != id {
		return nil, models.ErrOrderNotFound
	}
	return s.po, nil
}

type stubSettings struct {
	s models.Settings
}

func (s stubSettings) Get() (*models.Settings, error) {
	return &s.s, nil
}

// --- Tests ---

func TestAssemble(t *testing.T) {
	d := Assemble(newTestInvoice(), decimal.NewFromInt(100), "")

	assert.Equal(t, "Proforma Invoice", d.Title)
	assert.Equal(t, "PI No", d.NumberText)
	assert.Equal(t, "PI-7", d.Number)
	assert.Equal(t, models.StaticBuyer, d.Buyer)
	assert.Equal(t, []Field{
		{"PI Date", "05/03/2024"},
		{"Delivery", "20/04/2024"},
		{"Payment", "50% advance"},
		{"Delivery Terms", "Ex-factory"},
	}, d.Meta)

	require.Len(t, d.Lines, 1)
	assert.Equal(t, Line{
		StyleCode:   "TS-01",
		Description: "Crew neck tee",
		FabricGSM:   "Cotton 180",
		Colors:      "Black, White",
		SizeRange:   "S, M",
		Quantity:    "1,500",
		UnitPrice:   "₹250.00",
		Amount:      "₹3,75,000.00",
	}, d.Lines[0])
	assert.Equal(t, "₹3,75,000.00", d.Subtotal)

	assert.Equal(t, []string{"S", "M"}, d.Matrix.Sizes)
	require.Len(t, d.Matrix.Rows, 2)
	assert.Equal(t, MatrixRow{
		Color:     "Black",
		Cells:     []string{"1,000", "400"},
		Total:     "1,400",
		UnitPrice: "₹250.00",
		Amount:    "₹3,50,000.00",
	}, d.Matrix.Rows[0])
	assert.True(t, d.Matrix.Rows[1].ZeroPrice)
	assert.Equal(t, []string{"100", "0"}, d.Matrix.Rows[1].Cells)
	assert.Equal(t, []string{"1,100", "400"}, d.Matrix.ColumnTotals)
	assert.Equal(t, "1,500", d.Matrix.GrandTotalQty)
	assert.Equal(t, "₹3,50,000.00", d.Matrix.GrandTotalAmount)

	assert.Equal(t, []string{"Unit price is zero for: White"}, d.Warnings)
	assert.Equal(t, []Field{{"Folding", "Half fold"}, {"Polybag", "Individual"}}, d.Packing)
	assert.Empty(t, d.Terms)

	assert.Equal(t, "For Newline Apparel", d.Signatures[0].Heading)
	assert.Equal(t, "Authorised Signatory", d.Signatures[0].Name)
	assert.Equal(t, "Name: R. Kumar", d.Signatures[1].Name)
}

func TestAssembleMismatchAndLogo(t *testing.T) {
	po := newTestInvoice()
	po.DocType = models.DocPurchaseOrder
	po.OrderLines[0].Quantity = 1200
	po.Buyer = models.PartyInfo{Company: "Acme Apparel"}

	d := Assemble(po, decimal.Zero, "data:image/png;base64,AAAA")
	assert.Equal(t, "Purchase Order", d.Title)
	assert.Equal(t, "PO No", d.NumberText)
	assert.Equal(t, "Acme Apparel", d.Buyer.Company)
	assert.Equal(t, "data:image/png;base64,AAAA", d.LogoURL)
	assert.Contains(t, d.Warnings, "Size–colour total (1,500) does not match the order quantity (1,200)")

	po.LogoURL = "https://cdn.example.com/logo.png"
	d = Assemble(po, decimal.Zero, "data:image/png;base64,AAAA")
	assert.Equal(t, "https://cdn.example.com/logo.png", d.LogoURL)
}

func TestRender(t *testing.T) {
	d := Assemble(newTestInvoice(), decimal.Zero, "data:image/png;base64,iVBORw0KGgo=")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, d))
	html := buf.String()

	assert.Contains(t, html, "@page { size: A4;")
	assert.Contains(t, html, "Proforma Invoice")
	assert.Contains(t, html, "PI No: <strong>PI-7</strong>")
	assert.Contains(t, html, `src="data:image/png;base64,iVBORw0KGgo="`)
	assert.Contains(t, html, "₹3,50,000.00")
	assert.Contains(t, html, `<tr class="zero">`)
	assert.Contains(t, html, "GSTIN: 33AAAAA0000A1Z5")
	assert.Contains(t, html, "Name: R. Kumar")
	assert.NotContains(t, html, "Other Terms")
}

func TestRenderDropsUnsafeLogo(t *testing.T) {
	d := Assemble(newTestInvoice(), decimal.Zero, "javascript:alert(1)")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, d))
	assert.NotContains(t, buf.String(), "javascript:")
	assert.Contains(t, buf.String(), `<div class="logo-placeholder">Logo</div>`)
}

func TestDocumentHandler(t *testing.T) {
	settings := stubSettings{s: models.Settings{DefaultUnitPrice: decimal.NewFromInt(100)}}

	testCases := []struct {
		name               string
		orders             stubOrders
		id                 string
		handle             func(h *DocumentHandler) http.HandlerFunc
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:               "Document JSON",
			orders:             stubOrders{po: newTestInvoice()},
			id:                 "pi-1",
			handle:             func(h *DocumentHandler) http.HandlerFunc { return h.HandleDocument },
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var d Document
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&d))
				assert.Equal(t, "Proforma Invoice", d.Title)
				assert.Equal(t, "₹3,50,000.00", d.Matrix.GrandTotalAmount)
			},
		},
		{
			name:               "Printable HTML",
			orders:             stubOrders{po: newTestInvoice()},
			id:                 "pi-1",
			handle:             func(h *DocumentHandler) http.HandlerFunc { return h.HandlePrint },
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), "Size–Colour Breakdown")
			},
		},
		{
			name:               "Unknown order",
			orders:             stubOrders{po: newTestInvoice()},
			id:                 "missing",
			handle:             func(h *DocumentHandler) http.HandlerFunc { return h.HandlePrint },
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "Repository error",
			orders:             stubOrders{err: errors.New("db down")},
			id:                 "pi-1",
			handle:             func(h *DocumentHandler) http.HandlerFunc { return h.HandleDocument },
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewDocumentHandler(NewBuilder(tc.orders, settings))
			req := httptest.NewRequest("GET", "/api/pos/"+tc.id+"/document", nil)
			req.SetPathValue("id", tc.id)
			rec := httptest.NewRecorder()

			tc.handle(handler)(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}
