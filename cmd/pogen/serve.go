package main

import (
	gocontext "context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/newlineapparel/pogen/app"
	"github.com/newlineapparel/pogen/app/metrics"
	"github.com/newlineapparel/pogen/models"
)

type ServeCmd struct {
	Addr    string `default:":8080" env:"POGEN_ADDR" help:"Address to listen on."`
	Migrate bool   `default:"true" negatable:"" help:"Migrate the schema before serving."`
}

func (c *ServeCmd) Run(ctx *context) error {
	if c.Migrate {
		if err := models.Migrate(ctx.db); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           app.NewMux(ctx.db, ctx.defaultPrice, metrics.New()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop, cancel := signal.NotifyContext(gocontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errs := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", c.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "serving http")
	case <-stop.Done():
	}

	log.Printf("shutting down")
	shutdown, cancelShutdown := gocontext.WithTimeout(gocontext.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdown); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	return nil
}
