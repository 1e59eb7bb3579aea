package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.sr.ht/~whereswaldon/voicestats/backend"
	"git.sr.ht/~whereswaldon/voicestats/config"
	"git.sr.ht/~whereswaldon/voicestats/logging"
	"git.sr.ht/~whereswaldon/voicestats/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	addr := flag.String("listen", "", "address to listen on (overrides config)")
	datasetPath := flag.String("dataset", "", "CSV file of clip statistics to follow (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.ListenAddr = *addr
	}
	if *datasetPath != "" {
		cfg.Dataset = *datasetPath
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ds := backend.NewDatasource(ctx, log.WithField("component", "datasource"))
	if cfg.Dataset != "" {
		if _, err := ds.Open(cfg.Dataset); err != nil {
			log.WithError(err).Fatal("failed opening dataset")
		}
	}
	srv := server.New(cfg.Server, ds, log.WithField("component", "server"))
	if err := srv.ListenAndServe(ctx); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
