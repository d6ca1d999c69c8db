package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/peterkuimelis/forestclash/internal/config"
	"github.com/peterkuimelis/forestclash/internal/web"
)

func main() {
	configFile := flag.String("config", "", "path to config file (YAML, TOML or JSON)")
	addr := flag.String("addr", "", "HTTP listen address (overrides web.addr)")
	artDir := flag.String("art", "./card_art", "path to card art directory")
	flag.Parse()

	if err := run(*configFile, *addr, *artDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, addr, artDir string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := cfg.Game.Catalog()
	if err != nil {
		return err
	}
	rec, closeRec, err := config.OpenRecorder(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeRec()

	if addr == "" {
		addr = cfg.Web.Addr
	}
	if _, err := os.Stat(artDir); err != nil {
		artDir = ""
	}
	srv := web.NewServer(web.Config{
		Rules:          cfg.Game.Rules(),
		Catalog:        catalog,
		Recorder:       rec,
		Logger:         logger,
		OpponentDelay:  cfg.Game.OpponentDelay,
		ArtDir:         artDir,
		AllowedOrigins: cfg.Web.AllowedOrigins,
		Seed:           cfg.Game.Seed,
	})

	logger.Info("forestclash web UI listening", zap.String("addr", addr))
	return srv.ListenAndServe(ctx, addr)
}
