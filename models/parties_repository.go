package models

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrPartyNotFound is returned when a directory entry is not found.
var ErrPartyNotFound = errors.New("party not found")

type PartiesRepository struct {
	db *gorm.DB
}

func NewPartiesRepository(db *gorm.DB) *PartiesRepository {
	return &PartiesRepository{db: db}
}

func (r *PartiesRepository) GetAllParties(kind PartyKind) ([]Party, error) {
	var parties []Party
	if err := r.db.
		Where("kind = ?", kind).
		Order("company_name").Order("id").
		Find(&parties).Error; err != nil {
		return nil, errors.Wrapf(err, "listing %s parties", kind)
	}
	return parties, nil
}

func (r *PartiesRepository) GetParty(kind PartyKind, id uint) (*Party, error) {
	var p Party
	if err := r.db.Where("kind = ? AND id = ?", kind, id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, errors.Wrapf(err, "loading %s party %d", kind, id)
	}
	return &p, nil
}

// DefaultBuyer returns the buyer flagged as default, or ErrPartyNotFound.
func (r *PartiesRepository) DefaultBuyer() (*Party, error) {
	var p Party
	if err := r.db.Where("kind = ? AND is_default_buyer = ?", KindBuyer, true).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, errors.Wrap(err, "loading default buyer")
	}
	return &p, nil
}

// clearDefaultBuyer leaves p as the only default buyer.
func clearDefaultBuyer(tx *gorm.DB, p *Party) error {
	if p.Kind != KindBuyer || !p.IsDefaultBuyer {
		return nil
	}
	return tx.Model(&Party{}).
		Where("kind = ? AND id <> ?", KindBuyer, p.ID).
		Update("is_default_buyer", false).Error
}

func (r *PartiesRepository) CreateParty(p *Party) error {
	if p.Kind != KindBuyer {
		p.IsDefaultBuyer = false
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return errors.Wrap(err, "creating party")
		}
		return clearDefaultBuyer(tx, p)
	})
}

func (r *PartiesRepository) UpdateParty(p *Party) error {
	if p.Kind != KindBuyer {
		p.IsDefaultBuyer = false
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing Party
		if err := tx.Where("kind = ? AND id = ?", p.Kind, p.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPartyNotFound
			}
			return errors.Wrapf(err, "loading party %d", p.ID)
		}
		p.CreatedAt = existing.CreatedAt
		if err := tx.Save(p).Error; err != nil {
			return errors.Wrapf(err, "updating party %d", p.ID)
		}
		return clearDefaultBuyer(tx, p)
	})
}

func (r *PartiesRepository) DeleteParty(kind PartyKind, id uint) error {
	res := r.db.Where("kind = ? AND id = ?", kind, id).Delete(&Party{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "deleting party %d", id)
	}
	if res.RowsAffected == 0 {
		return ErrPartyNotFound
	}
	return nil
}
