package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"git.sr.ht/~whereswaldon/voicestats/backend"
	"git.sr.ht/~whereswaldon/voicestats/config"
	"git.sr.ht/~whereswaldon/voicestats/l10n"
	"git.sr.ht/~whereswaldon/voicestats/logging"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	datasetPath := flag.String("dataset", "", "CSV file of clip statistics to follow (overrides config)")
	locale := flag.String("locale", "", "interface language (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *datasetPath != "" {
		cfg.Dataset = *datasetPath
	}
	if *locale != "" {
		cfg.Locale = *locale
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	api, err := backend.NewAPI(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout}, log.WithField("component", "api"), cfg.API.MaxRetry)
	if err != nil {
		log.WithError(err).Fatal("failed configuring API client")
	}
	ds := backend.NewDatasource(ctx, log.WithField("component", "datasource"))
	if cfg.Dataset != "" {
		if _, err := ds.Open(cfg.Dataset); err != nil {
			log.WithError(err).Error("failed opening dataset, showing sample data")
		}
	}
	bundle := backend.NewBundle(ds, api)

	go func() {
		w := app.NewWindow(
			app.Title("Voice Statistics"),
			app.Size(unit.Dp(900), unit.Dp(700)),
		)
		if err := loop(ctx, w, bundle, l10n.New(cfg.Locale), cfg.Locales, log); err != nil {
			log.WithError(err).Fatal("window closed with error")
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(ctx context.Context, w *app.Window, bundle backend.Bundle, loc *l10n.Localizer, locales []string, log logrus.FieldLogger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ws := backend.NewWindowState(ctx, bundle, w.Invalidate)
	expl := explorer.NewExplorer(w)
	ui := NewUI(ws, expl, loc, locales, log)
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
			ws.Controller.Sweep()
		}
	}
}
