package main

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/newlineapparel/pogen/app/document"
	"github.com/newlineapparel/pogen/models"
)

type RenderCmd struct {
	ID  string `arg:"" name:"po-id" help:"Id of the purchase order to render."`
	Out string `short:"o" type:"path" help:"File to write. Defaults to stdout."`
}

func (c *RenderCmd) Run(ctx *context) error {
	builder := document.NewBuilder(
		models.NewPurchaseOrdersRepository(ctx.db),
		models.NewSettingsRepository(ctx.db, ctx.defaultPrice),
	)
	d, err := builder.Build(c.ID)
	if err != nil {
		return errors.Wrapf(err, "loading order %s", c.ID)
	}

	if c.Out == "" {
		return document.Render(os.Stdout, d)
	}
	return writeFile(c.Out, func(w io.Writer) error { return document.Render(w, d) })
}

// writeFile creates path and passes it to write. A failed close is reported
// when write itself succeeded.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
	}()
	return write(f)
}
