package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/isAdamBailey/black-circles/db"
)

func (a *app) sync(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("sync", flag.ContinueOnError)
	fast := flags.Bool("fast", false, "skip marketplace stats (halves API calls; prices are fetched on page view instead)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	username := flags.Arg(0)
	if username == "" {
		username = a.cfg.Discogs.Username
	}
	if username == "" {
		saved, err := a.db.Setting(ctx, db.SettingDiscogsUsername)
		if err != nil {
			return err
		}
		username = saved
	}
	if username == "" {
		return fmt.Errorf("no username; pass one as an argument, set discogs.username in config, or save it with 'blackcircles settings'")
	}

	fmt.Printf("Syncing collection for: %s\n", username)

	a.fetcher.SetProgress(func(message string) { fmt.Println(message) })

	synced, err := a.fetcher.Sync(ctx, username, *fast)
	if err != nil {
		return fmt.Errorf("sync error: %w", err)
	}

	fmt.Printf("Synced %d items.\n", synced)
	if synced == 0 {
		fmt.Println("No items synced. Check: the Discogs username is correct, the collection has items, and a token improves rate limits.")
	}

	return nil
}
