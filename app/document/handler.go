package document

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/newlineapparel/pogen/app/respond"
	"github.com/newlineapparel/pogen/models"
)

type OrderGetter interface {
	GetByID(id string) (*models.PurchaseOrder, error)
}

type SettingsGetter interface {
	Get() (*models.Settings, error)
}

// Builder loads an order and the business settings and assembles the
// document.
type Builder struct {
	orders   OrderGetter
	settings SettingsGetter
}

func NewBuilder(o OrderGetter, s SettingsGetter) *Builder {
	return &Builder{orders: o, settings: s}
}

func (b *Builder) Build(id string) (Document, error) {
	po, err := b.orders.GetByID(id)
	if err != nil {
		return Document{}, err
	}
	s, err := b.settings.Get()
	if err != nil {
		return Document{}, err
	}
	return Assemble(po, s.DefaultUnitPrice, s.LogoBase64), nil
}

type DocumentHandler struct {
	builder *Builder
}

func NewDocumentHandler(b *Builder) *DocumentHandler {
	return &DocumentHandler{builder: b}
}

func (h *DocumentHandler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	d, ok := h.build(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, d)
}

func (h *DocumentHandler) HandlePrint(w http.ResponseWriter, r *http.Request) {
	d, ok := h.build(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, d); err != nil {
		log.Printf("printing order %s: %v", r.PathValue("id"), err)
		respond.Error(w, http.StatusInternalServerError, "failed to render document")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("writing document: %v", err)
	}
}

func (h *DocumentHandler) build(w http.ResponseWriter, r *http.Request) (Document, bool) {
	id := r.PathValue("id")
	d, err := h.builder.Build(id)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			respond.Error(w, http.StatusNotFound, "order not found")
			return Document{}, false
		}
		log.Printf("assembling document for order %s: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "failed to assemble document")
		return Document{}, false
	}
	return d, true
}
