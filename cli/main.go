// this program keeps a local sqlite copy of a Discogs vinyl collection and
// answers mood- or free-text-based listening suggestions against it.
//
// see db/schema.sql for info about the resulting database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/isAdamBailey/black-circles/config"
	"github.com/isAdamBailey/black-circles/db"
	"github.com/isAdamBailey/black-circles/discogs"
	"github.com/isAdamBailey/black-circles/fetcher"
	"github.com/isAdamBailey/black-circles/hf"
	"github.com/isAdamBailey/black-circles/sigctx"
	"github.com/isAdamBailey/black-circles/suggest"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var usage = strings.TrimSpace(`
usage: blackcircles $cmd
valid $cmd are 'sync', 'suggest', 'vibe', 'random', 'show', 'settings', 'serve'
for help: blackcircles $cmd -help
`)

// app bundles the services the subcommands share.
type app struct {
	cfg       *config.Config
	db        *db.DB
	fetcher   *fetcher.Fetcher
	suggester *suggest.Suggester
	hf        *hf.Client
	log       *zap.Logger
}

func run() error {
	ctx := sigctx.New()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	classifier := hf.New(cfg.HuggingFace.Token, log)
	a := &app{
		cfg:       cfg,
		db:        database,
		fetcher:   fetcher.New(database, discogs.New(cfg.Discogs.Token, log), cfg.Currency, log),
		suggester: suggest.New(database, classifier, hf.PartitionLabels, log),
		hf:        classifier,
		log:       log,
	}

	if len(os.Args) < 2 {
		return errors.New(usage)
	}
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "sync":
		return a.sync(ctx, args)

	case "suggest":
		return a.suggest(ctx, args)

	case "vibe":
		return a.vibe(ctx, args)

	case "random":
		return a.random(ctx, args)

	case "show":
		return a.show(ctx, args)

	case "settings":
		return a.settings(ctx, args)

	case "serve":
		return a.serve(ctx, args)

	default:
		return fmt.Errorf("unknown cmd: '%s'\n%s", cmd, usage)
	}
}
