package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PurchaseOrdersRepository struct {
	db *gorm.DB
}

// ErrOrderNotFound is returned when a purchase order is not found.
var ErrOrderNotFound = errors.New("purchase order not found")

type OrderFilters struct {
	// Search matches the PO number or the supplier company.
	Search   string
	Supplier string
}

func NewPurchaseOrdersRepository(db *gorm.DB) *PurchaseOrdersRepository {
	return &PurchaseOrdersRepository{
		db: db,
	}
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

func (r *PurchaseOrdersRepository) GetFilteredOrders(offset, limit int, filters OrderFilters) ([]PurchaseOrder, int64, error) {
	var orders []PurchaseOrder
	var total int64

	query := r.db.Model(&PurchaseOrder{})

	// Filter
	if strings.TrimSpace(filters.Search) != "" {
		p := likePattern(filters.Search)
		query = query.Where("LOWER(po_number) LIKE ? OR LOWER(supplier_company) LIKE ?", p, p)
	}
	if strings.TrimSpace(filters.Supplier) != "" {
		query = query.Where("LOWER(supplier_company) LIKE ?", likePattern(filters.Supplier))
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting purchase orders")
	}

	// Apply pagination
	if err := query.
		Preload("OrderLines", orderLinesByPosition).
		Order("created_at DESC").Order("id").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, errors.Wrap(err, "listing purchase orders")
	}

	return orders, total, nil
}

func orderLinesByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position").Order("id")
}

func (r *PurchaseOrdersRepository) GetByID(id string) (*PurchaseOrder, error) {
	return getOrder(r.db, id)
}

func getOrder(db *gorm.DB, id string) (*PurchaseOrder, error) {
	var po PurchaseOrder
	if err := db.
		Preload("OrderLines", orderLinesByPosition).
		Where("id = ?", id).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errors.Wrapf(err, "loading purchase order %s", id)
	}
	return &po, nil
}

func numberLines(po *PurchaseOrder) {
	for i := range po.OrderLines {
		po.OrderLines[i].ID = 0
		po.OrderLines[i].OrderID = po.ID
		po.OrderLines[i].Position = i
		if po.OrderLines[i].Unit == "" {
			po.OrderLines[i].Unit = "pcs"
		}
	}
}

func (r *PurchaseOrdersRepository) Create(po *PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.NewString()
	}
	numberLines(po)
	if err := r.db.Create(po).Error; err != nil {
		return errors.Wrap(err, "creating purchase order")
	}
	return nil
}

// Update overwrites the stored order and replaces its order lines.
func (r *PurchaseOrdersRepository) Update(po *PurchaseOrder) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := getOrder(tx, po.ID)
		if err != nil {
			return err
		}
		po.CreatedAt = existing.CreatedAt
		numberLines(po)

		if err := tx.Omit("OrderLines").Save(po).Error; err != nil {
			return errors.Wrapf(err, "updating purchase order %s", po.ID)
		}
		if err := tx.Where("order_id = ?", po.ID).Delete(&OrderLine{}).Error; err != nil {
			return errors.Wrapf(err, "clearing order lines of %s", po.ID)
		}
		if len(po.OrderLines) > 0 {
			if err := tx.Create(&po.OrderLines).Error; err != nil {
				return errors.Wrapf(err, "writing order lines of %s", po.ID)
			}
		}
		return nil
	})
}

func (r *PurchaseOrdersRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&PurchaseOrder{})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "deleting purchase order %s", id)
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		if err := tx.Where("order_id = ?", id).Delete(&OrderLine{}).Error; err != nil {
			return errors.Wrapf(err, "deleting order lines of %s", id)
		}
		return nil
	})
}
