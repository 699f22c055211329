package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const settingsID = 1

// Settings is the single row of business-wide preferences.
type Settings struct {
	ID               uint            `gorm:"primaryKey"`
	DefaultUnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LogoBase64       string          `gorm:"type:text"`
	LogoFilename     string
	UpdatedAt        time.Time
}

func (s *Settings) TableName() string {
	return "settings"
}

type SettingsRepository struct {
	db       *gorm.DB
	fallback decimal.Decimal
}

// NewSettingsRepository returns a repository that reports fallbackPrice as
// the default unit price until settings have been saved.
func NewSettingsRepository(db *gorm.DB, fallbackPrice decimal.Decimal) *SettingsRepository {
	return &SettingsRepository{
		db:       db,
		fallback: fallbackPrice,
	}
}

func (r *SettingsRepository) Get() (*Settings, error) {
	var s Settings
	if err := r.db.First(&s, settingsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Settings{ID: settingsID, DefaultUnitPrice: r.fallback}, nil
		}
		return nil, errors.Wrap(err, "loading settings")
	}
	return &s, nil
}

func (r *SettingsRepository) Save(s *Settings) error {
	s.ID = settingsID
	if err := r.db.Save(s).Error; err != nil {
		return errors.Wrap(err, "saving settings")
	}
	return nil
}

// DefaultUnitPrice is the price given to new and legacy colours.
func (r *SettingsRepository) DefaultUnitPrice() (decimal.Decimal, error) {
	s, err := r.Get()
	if err != nil {
		return decimal.Zero, err
	}
	return s.DefaultUnitPrice, nil
}
