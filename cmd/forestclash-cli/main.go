package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/peterkuimelis/forestclash/internal/cli"
	"github.com/peterkuimelis/forestclash/internal/config"
	fclog "github.com/peterkuimelis/forestclash/internal/log"
	"github.com/peterkuimelis/forestclash/internal/session"
)

func main() {
	configFile := flag.String("config", "", "path to config file (YAML, TOML or JSON)")
	account := flag.String("account", "", "account to record the match under")
	seed := flag.Int64("seed", 0, "RNG seed (0 for random)")
	transcript := flag.String("transcript", "", "append every game event to this file")
	flag.Parse()

	if err := run(*configFile, *account, *seed, *transcript); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, account string, seed int64, transcript string) error {
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

	if account == "" {
		account = cfg.Game.Account
	}
	if seed == 0 {
		seed = cfg.Game.Seed
	}
	opts := session.Options{
		Rules:    cfg.Game.Rules(),
		Catalog:  catalog,
		Seed:     seed,
		Account:  account,
		Recorder: rec,
		Logger:   logger,
	}
	if transcript != "" {
		f, err := os.OpenFile(transcript, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open transcript: %w", err)
		}
		defer f.Close()
		opts.Events = fclog.NewTextLogger(f)
	}
	sess := session.New(opts)

	err = cli.NewClient(sess, os.Stdin, os.Stdout, cfg.Game.OpponentDelay).Run(ctx)
	if errors.Is(err, cli.ErrQuit) || errors.Is(err, context.Canceled) {
		logger.Info("match abandoned", zap.String("account", sess.Account()))
		return nil
	}
	return err
}
