package models

import (
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBConfig selects and configures the database.
type DBConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string
	DSN    string
	LogSQL bool
}

// Open connects to the configured database. Postgres goes through lib/pq.
func Open(cfg DBConfig) (*gorm.DB, error) {
	var d gorm.Dialector
	switch cfg.Driver {
	case "", "postgres":
		if cfg.DSN == "" {
			return nil, errors.New("postgres requires a DSN")
		}
		d = postgres.New(postgres.Config{DriverName: "postgres", DSN: cfg.DSN})
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "pogen.db"
		}
		d = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}

	level := logger.Warn
	if cfg.LogSQL {
		level = logger.Info
	}
	l := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{Logger: l})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s database", cfg.Driver)
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Party{},
		&Settings{},
		&PurchaseOrder{},
		&OrderLine{},
	)
	return errors.Wrap(err, "migrating schema")
}
