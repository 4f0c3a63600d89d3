package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/isAdamBailey/black-circles/server"
)

func (a *app) serve(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := flags.String("addr", a.cfg.Addr, "listen address")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	srv := server.New(a.db, a.fetcher, a.suggester, a.hf.Enabled(), a.log)
	return srv.Run(ctx, *addr)
}
