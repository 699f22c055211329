package main

import (
	"log"

	"github.com/newlineapparel/pogen/models"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *context) error {
	if err := models.Migrate(ctx.db); err != nil {
		return err
	}
	log.Printf("schema is up to date")
	return nil
}
