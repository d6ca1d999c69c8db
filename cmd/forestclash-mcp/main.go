package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/forestclash/internal/config"
	fcmcp "github.com/peterkuimelis/forestclash/internal/mcp"
)

func main() {
	configFile := flag.String("config", "", "path to config file (YAML, TOML or JSON)")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	catalog, err := cfg.Game.Catalog()
	if err != nil {
		return err
	}
	rec, closeRec, err := config.OpenRecorder(context.Background(), cfg.Storage)
	if err != nil {
		return err
	}
	defer closeRec()

	controller := fcmcp.NewController(fcmcp.Config{
		Rules:         cfg.Game.Rules(),
		Catalog:       catalog,
		Seed:          cfg.Game.Seed,
		Account:       cfg.Game.Account,
		Recorder:      rec,
		Logger:        logger,
		OpponentDelay: cfg.Game.OpponentDelay,
	})

	s := server.NewMCPServer("forestclash", "1.0.0")
	fcmcp.RegisterTools(s, controller)

	return server.ServeStdio(s)
}
