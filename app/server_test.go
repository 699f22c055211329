package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/newlineapparel/pogen/app/metrics"
	"github.com/newlineapparel/pogen/app/orders"
	"github.com/newlineapparel/pogen/app/parties"
	"github.com/newlineapparel/pogen/app/settings"
	"github.com/newlineapparel/pogen/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := models.Open(models.DBConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.Migrate(db))

	srv := httptest.NewServer(NewMux(db, decimal.NewFromInt(100), metrics.New()))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestOrderLifecycle(t *testing.T) {
	srv := newTestServer(t)

	status := call(t, srv, "POST", "/api/buyers", `{"company_name": "Acme Apparel", "address1": "1 Main Road", "is_default_buyer": true}`, nil)
	require.Equal(t, http.StatusCreated, status)

	var created orders.Order
	status = call(t, srv, "POST", "/api/pos", `{
		"po_number": "PO-2024-001",
		"po_date": "2024-03-05",
		"supplier": {"company": "Sree Textiles"},
		"delivery_terms": "Ex-factory",
		"payment_terms": "30 days",
		"order_lines": [{"style_code": "TS-01", "quantity": 12, "unit_price": 150}]
	}`, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Acme Apparel", created.Buyer.Company)
	assert.Len(t, created.Breakdown.Sizes, 6)
	blackID := created.Breakdown.Colors[0].ID
	require.NotEmpty(t, blackID)

	var applied orders.MatrixResponse
	status = call(t, srv, "POST", "/api/pos/"+created.ID+"/matrix", `{"ops": [
		{"op": "setCell", "color": "Black", "size": "S", "value": 8},
		{"op": "setCell", "color": "Black", "size": "M", "value": "4"},
		{"op": "renameColor", "index": 0, "label": "Jet Black"}
	]}`, &applied)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", applied.Status)
	assert.Equal(t, 12, applied.Totals.GrandTotalQty)
	assert.Equal(t, 1200.0, applied.Totals.GrandTotalAmount)
	assert.False(t, applied.Mismatch)

	var rejected orders.MatrixResponse
	status = call(t, srv, "POST", "/api/pos/"+created.ID+"/matrix", `{"ops": [
		{"op": "setCell", "color": "Jet Black", "size": "S", "value": 100},
		{"op": "removeSize", "index": 99}
	]}`, &rejected)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "rejected", rejected.Status)

	var stored orders.Order
	status = call(t, srv, "GET", "/api/pos/"+created.ID, "", &stored)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Jet Black", stored.Breakdown.Colors[0].Name)
	assert.Equal(t, blackID, stored.Breakdown.Colors[0].ID, "renames keep the colour id")
	assert.Equal(t, 12, stored.MatrixTotals.GrandTotalQty)
	assert.Equal(t, 8, stored.Breakdown.Values["Jet Black"]["S"])
	assert.Equal(t, 12, stored.OrderTotalQty)

	var list orders.Response
	status = call(t, srv, "GET", "/api/pos?search=2024", "", &list)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, list.Total)

	resp, err := srv.Client().Get(srv.URL + "/api/pos/" + created.ID + "/print")
	require.NoError(t, err)
	html, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(html), "PO-2024-001")
	assert.Contains(t, string(html), "₹1,800.00")

	status = call(t, srv, "DELETE", "/api/pos/"+created.ID, "", nil)
	assert.Equal(t, http.StatusOK, status)
	status = call(t, srv, "GET", "/api/pos/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `pogen_matrix_operations_total{op="removeSize",result="rejected"} 1`)
	assert.Contains(t, string(body), `pogen_matrix_operations_total{op="setCell",result="ok"} 3`)
}

func TestSettingsDriveDefaultPrice(t *testing.T) {
	srv := newTestServer(t)

	status := call(t, srv, "PUT", "/api/settings", `{"default_unit_price": "75.5"}`, nil)
	require.Equal(t, http.StatusOK, status)

	var created orders.Order
	status = call(t, srv, "POST", "/api/pos", `{
		"po_number": "PO-9",
		"po_date": "2024-03-05",
		"supplier": {"company": "Kovai Knits"},
		"delivery_terms": "FOB",
		"payment_terms": "Advance",
		"size_colour_breakdown": {"sizes": ["S"], "colors": ["Navy"], "values": {"Navy": {"S": 2}}}
	}`, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 151.0, created.MatrixTotals.GrandTotalAmount)
	assert.Equal(t, "Newline Apparel", created.Buyer.Company)

	var info models.PartyInfo
	status = call(t, srv, "GET", "/api/buyer-info", "", &info)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.StaticBuyer.Company, info.Company)
}

func TestDirectoryPatchAndLogoRoutes(t *testing.T) {
	srv := newTestServer(t)

	var supplier parties.PartyResponse
	status := call(t, srv, "POST", "/api/suppliers", `{"company_name": "Sree Textiles", "gstin": "33abc"}`, &supplier)
	require.Equal(t, http.StatusCreated, status)

	var patched parties.PartyResponse
	status = call(t, srv, "PATCH", "/api/suppliers/"+strconv.FormatUint(uint64(supplier.ID), 10), `{"company_name": "Sree Textiles Pvt Ltd"}`, &patched)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Sree Textiles Pvt Ltd", patched.CompanyName)

	var logo settings.LogoResponse
	body := "--b\r\nContent-Disposition: form-data; name=\"file\"; filename=\"logo.png\"\r\nContent-Type: image/png\r\n\r\n" +
		"\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\r\n--b--\r\n"
	req, err := http.NewRequest("POST", srv.URL+"/api/settings/logo", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&logo))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "logo.png", logo.Filename)

	var current settings.Response
	call(t, srv, "GET", "/api/settings", "", &current)
	assert.Equal(t, logo.LogoBase64, current.LogoBase64)

	status = call(t, srv, "DELETE", "/api/settings/logo", "", nil)
	require.Equal(t, http.StatusOK, status)
	current = settings.Response{}
	call(t, srv, "GET", "/api/settings", "", &current)
	assert.Empty(t, current.LogoBase64)
}
