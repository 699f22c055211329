package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/newlineapparel/pogen/models"
)

var cli struct {
	DBDriver         string `name:"db-driver" default:"postgres" enum:"postgres,sqlite" env:"POGEN_DB_DRIVER" help:"Database driver (postgres or sqlite)."`
	DBDSN            string `name:"db-dsn" env:"POGEN_DB_DSN" help:"Database connection string. Defaults to pogen.db for sqlite."`
	LogSQL           bool   `name:"log-sql" env:"POGEN_LOG_SQL" help:"Log every SQL statement."`
	DefaultUnitPrice string `name:"default-unit-price" default:"0" env:"POGEN_DEFAULT_UNIT_PRICE" help:"Unit price for new colours until settings are saved."`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API."`
	Migrate MigrateCmd `cmd:"" help:"Create or update the database schema."`
	Render  RenderCmd  `cmd:"" help:"Write the printable HTML of a purchase order."`
}

type context struct {
	db           *gorm.DB
	defaultPrice decimal.Decimal
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	ctx := kong.Parse(&cli,
		kong.Name("pogen"),
		kong.Description("Purchase order and proforma invoice generator."),
		kong.ShortUsageOnError(),
	)

	price, err := decimal.NewFromString(cli.DefaultUnitPrice)
	if err != nil {
		ctx.Fatalf("invalid default unit price %q", cli.DefaultUnitPrice)
	}

	db, err := models.Open(models.DBConfig{
		Driver: cli.DBDriver,
		DSN:    cli.DBDSN,
		LogSQL: cli.LogSQL,
	})
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&context{
		db:           db,
		defaultPrice: price,
	})
	ctx.FatalIfErrorf(err)
}
