package orders

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/newlineapparel/pogen/app/respond"
	"github.com/newlineapparel/pogen/matrix"
	"github.com/newlineapparel/pogen/models"
	"github.com/shopspring/decimal"
)

type OrderProvider interface {
	GetFilteredOrders(offset, limit int, filters models.OrderFilters) ([]models.PurchaseOrder, int64, error)
	GetByID(id string) (*models.PurchaseOrder, error)
	Create(po *models.PurchaseOrder) error
	Update(po *models.PurchaseOrder) error
	Delete(id string) error
}

// PriceSource supplies the unit price given to new and legacy colours.
type PriceSource interface {
	DefaultUnitPrice() (decimal.Decimal, error)
}

// BuyerSource supplies the default buyer for new orders.
type BuyerSource interface {
	DefaultBuyer() (*models.Party, error)
}

type OpRecorder interface {
	ObserveMatrixOp(op string, err error)
}

type OrdersHandler struct {
	repo    OrderProvider
	prices  PriceSource
	buyers  BuyerSource
	metrics OpRecorder
}

func NewOrdersHandler(r OrderProvider, prices PriceSource, buyers BuyerSource, m OpRecorder) *OrdersHandler {
	return &OrdersHandler{
		repo:    r,
		prices:  prices,
		buyers:  buyers,
		metrics: m,
	}
}

func (h *OrdersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			limit = min(max(l, 1), 100)
		}
	}

	filters := models.OrderFilters{
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		Supplier: strings.TrimSpace(r.URL.Query().Get("supplier")),
	}

	price, ok := h.defaultPrice(w)
	if !ok {
		return
	}

	res, total, err := h.repo.GetFilteredOrders(offset, limit, filters)
	if err != nil {
		log.Printf("listing orders: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to get orders")
		return
	}

	orders := make([]Order, len(res))
	for i := range res {
		orders[i] = toOrder(&res[i], price)
	}

	respond.JSON(w, http.StatusOK, Response{
		Total:  int(total),
		Orders: orders,
	})
}

func (h *OrdersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	po, ok := h.load(w, r.PathValue("id"))
	if !ok {
		return
	}
	price, ok := h.defaultPrice(w)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, toOrder(po, price))
}

func (h *OrdersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in OrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validate(in); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	price, ok := h.defaultPrice(w)
	if !ok {
		return
	}

	po := &models.PurchaseOrder{DocType: models.DocPurchaseOrder, Currency: "INR"}
	in.apply(po)
	if in.Buyer == nil {
		po.Buyer = h.defaultBuyer()
	}
	if in.Breakdown != nil {
		po.SetGrid(matrix.Load(*in.Breakdown, price))
	} else {
		po.SetGrid(matrix.New(price))
	}

	if err := h.repo.Create(po); err != nil {
		log.Printf("creating order: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create order")
		return
	}
	respond.JSON(w, http.StatusCreated, toOrder(po, price))
}

func (h *OrdersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	po, ok := h.load(w, r.PathValue("id"))
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in := inputFromOrder(po)
	if err := in.decodeUpdate(body); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validate(in); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	price, ok := h.defaultPrice(w)
	if !ok {
		return
	}

	in.apply(po)
	if in.Breakdown != nil {
		po.SetGrid(po.Grid(price).Reload(*in.Breakdown, price))
	}

	if err := h.repo.Update(po); err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			respond.Error(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("updating order %s: %v", po.ID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to update order")
		return
	}
	respond.JSON(w, http.StatusOK, toOrder(po, price))
}

func (h *OrdersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			respond.Error(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("deleting order %s: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	respond.Message(w, http.StatusOK, "order deleted")
}

// HandleMatrix applies a batch of matrix operations to the order's breakdown.
// Either all of them are stored or none is.
func (h *OrdersHandler) HandleMatrix(w http.ResponseWriter, r *http.Request) {
	var req MatrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	po, ok := h.load(w, r.PathValue("id"))
	if !ok {
		return
	}
	price, ok := h.defaultPrice(w)
	if !ok {
		return
	}

	current := po.Grid(price)
	next, failed, err := matrix.ApplyAll(current, price, req.Ops)
	h.observe(req.Ops, failed, err)

	switch {
	case err == nil:
	case matrix.IsRejection(err):
		respond.JSON(w, http.StatusOK, MatrixResponse{
			Status:    "rejected",
			Reason:    err.Error(),
			FailedOp:  &failed,
			Breakdown: current.Wire(),
			Totals:    toTotals(current),
			Mismatch:  current.GrandTotalQty() != po.OrderQty(),
		})
		return
	default:
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	po.SetGrid(next)
	if err := h.repo.Update(po); err != nil {
		log.Printf("storing matrix for order %s: %v", po.ID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to update order")
		return
	}

	respond.JSON(w, http.StatusOK, MatrixResponse{
		Status:    "ok",
		Breakdown: next.Wire(),
		Totals:    toTotals(next),
		Mismatch:  next.GrandTotalQty() != po.OrderQty(),
	})
}

// HandleSyncQuantities copies the matrix grand total into the order's only
// order line.
func (h *OrdersHandler) HandleSyncQuantities(w http.ResponseWriter, r *http.Request) {
	po, ok := h.load(w, r.PathValue("id"))
	if !ok {
		return
	}
	price, ok := h.defaultPrice(w)
	if !ok {
		return
	}

	if err := po.SyncQuantitiesFromMatrix(price); err != nil {
		respond.Error(w, http.StatusConflict, err.Error())
		return
	}
	if err := h.repo.Update(po); err != nil {
		log.Printf("syncing quantities for order %s: %v", po.ID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to update order")
		return
	}
	respond.JSON(w, http.StatusOK, toOrder(po, price))
}

func (h *OrdersHandler) observe(ops []matrix.Op, failed int, err error) {
	if h.metrics == nil {
		return
	}
	for i, op := range ops {
		switch {
		case err == nil || i < failed:
			h.metrics.ObserveMatrixOp(string(op.Kind), nil)
		case i == failed:
			h.metrics.ObserveMatrixOp(string(op.Kind), err)
		}
	}
}

func (h *OrdersHandler) load(w http.ResponseWriter, id string) (*models.PurchaseOrder, bool) {
	po, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			respond.Error(w, http.StatusNotFound, "order not found")
			return nil, false
		}
		log.Printf("loading order %s: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "failed to get order")
		return nil, false
	}
	return po, true
}

func (h *OrdersHandler) defaultPrice(w http.ResponseWriter) (decimal.Decimal, bool) {
	price, err := h.prices.DefaultUnitPrice()
	if err != nil {
		log.Printf("loading default unit price: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load settings")
		return decimal.Zero, false
	}
	return price, true
}

func (h *OrdersHandler) defaultBuyer() models.PartyInfo {
	if h.buyers == nil {
		return models.StaticBuyer
	}
	p, err := h.buyers.DefaultBuyer()
	if err != nil {
		if !errors.Is(err, models.ErrPartyNotFound) {
			log.Printf("loading default buyer: %v", err)
		}
		return models.StaticBuyer
	}
	return p.Info()
}

// validate returns a message for the first missing required field.
func validate(in OrderInput) string {
	switch {
	case strings.TrimSpace(in.PONumber) == "":
		return "po_number is required"
	case strings.TrimSpace(in.PODate) == "":
		return "po_date is required"
	case strings.TrimSpace(in.Supplier.Company) == "":
		return "supplier company is required"
	case strings.TrimSpace(in.DeliveryTerms) == "":
		return "delivery_terms is required"
	case strings.TrimSpace(in.PaymentTerms) == "":
		return "payment_terms is required"
	case in.DocType != "" && in.DocType != models.DocPurchaseOrder && in.DocType != models.DocProformaInvoice:
		return "doc_type must be PO or PI"
	}
	return ""
}
