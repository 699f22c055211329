// Package app wires the API handlers into an http.Handler.
package app

import (
	"net/http"

	"github.com/newlineapparel/pogen/app/document"
	"github.com/newlineapparel/pogen/app/metrics"
	"github.com/newlineapparel/pogen/app/orders"
	"github.com/newlineapparel/pogen/app/parties"
	"github.com/newlineapparel/pogen/app/settings"
	"github.com/newlineapparel/pogen/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// directories maps the URL segment of each directory list to its kind.
var directories = map[string]models.PartyKind{
	"buyers":    models.KindBuyer,
	"suppliers": models.KindSupplier,
	"billto":    models.KindBillTo,
}

// NewMux builds the API routes on top of db. fallbackPrice is the default
// unit price used until settings have been saved.
func NewMux(db *gorm.DB, fallbackPrice decimal.Decimal, m *metrics.Metrics) *http.ServeMux {
	orderRepo := models.NewPurchaseOrdersRepository(db)
	partyRepo := models.NewPartiesRepository(db)
	settingsRepo := models.NewSettingsRepository(db, fallbackPrice)

	ordersHandler := orders.NewOrdersHandler(orderRepo, settingsRepo, partyRepo, m)
	partyHandler := parties.NewPartyHandler(partyRepo)
	settingsHandler := settings.NewSettingsHandler(settingsRepo)
	documentHandler := document.NewDocumentHandler(document.NewBuilder(orderRepo, settingsRepo))

	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, m.Instrument(pattern, h))
	}

	handle("GET /api/pos", ordersHandler.HandleList)
	handle("POST /api/pos", ordersHandler.HandleCreate)
	handle("GET /api/pos/{id}", ordersHandler.HandleGet)
	handle("PUT /api/pos/{id}", ordersHandler.HandleUpdate)
	handle("DELETE /api/pos/{id}", ordersHandler.HandleDelete)
	handle("POST /api/pos/{id}/matrix", ordersHandler.HandleMatrix)
	handle("POST /api/pos/{id}/sync-quantities", ordersHandler.HandleSyncQuantities)
	handle("GET /api/pos/{id}/document", documentHandler.HandleDocument)
	handle("GET /api/pos/{id}/print", documentHandler.HandlePrint)

	for segment, kind := range directories {
		handle("GET /api/"+segment, partyHandler.HandleList(kind))
		handle("POST /api/"+segment, partyHandler.HandleCreate(kind))
		handle("PUT /api/"+segment+"/{id}", partyHandler.HandleUpdate(kind))
		handle("PATCH /api/"+segment+"/{id}", partyHandler.HandleUpdate(kind))
		handle("DELETE /api/"+segment+"/{id}", partyHandler.HandleDelete(kind))
	}
	handle("GET /api/buyer-info", partyHandler.HandleBuyerInfo)

	handle("GET /api/settings", settingsHandler.HandleGet)
	handle("PUT /api/settings", settingsHandler.HandleUpdate)
	handle("POST /api/settings/logo", settingsHandler.HandleLogoUpload)
	handle("DELETE /api/settings/logo", settingsHandler.HandleLogoDelete)

	mux.Handle("GET /metrics", m.Handler())
	return mux
}
