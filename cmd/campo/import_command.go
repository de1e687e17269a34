package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"campo-listings/internal/importer"
	"campo-listings/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create every property listed in a YAML or JSON file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "rate", Usage: "Listings per second (defaults to import.rate_per_second)"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics on this address while importing, e.g. :9102"},
		},
		Action: importAction,
	}
}

func importAction(c *cli.Context) error {
	path, err := requireArg(c, "FILE")
	if err != nil {
		return err
	}
	app := getApp(c)
	app.Navigator.Visit("/admin/properties/new")

	props, err := importer.LoadFile(path)
	if err != nil {
		return usageError("%v", err)
	}

	if addr := c.String("metrics-addr"); addr != "" {
		srv := &http.Server{Addr: addr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.GlobalLogger.Errorf("Failed to serve metrics: addr=%s, error=%v", addr, err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	rate := app.Config.Import.RatePerSecond
	if c.IsSet("rate") {
		rate = c.Float64("rate")
	}
	report, runErr := importer.New(app.Properties, rate, app.Config.Import.Burst).Run(c.Context, props)
	if err := app.printer.Print(report); err != nil {
		return err
	}
	if runErr != nil {
		return fail(runErr)
	}
	if report.Failed > 0 {
		return &exitError{msg: "some listings could not be imported", code: 1}
	}
	return nil
}
