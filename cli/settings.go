package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/isAdamBailey/black-circles/db"
)

func (a *app) settings(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("settings", flag.ContinueOnError)
	username := flags.String("username", "", "save this Discogs username for future syncs")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	if *username != "" {
		if !db.ValidDiscogsUsername(*username) {
			return fmt.Errorf("username may only contain letters, numbers, dashes, and underscores (max 255)")
		}
		if err := a.db.SetSetting(ctx, db.SettingDiscogsUsername, *username); err != nil {
			return err
		}
	}

	saved, err := a.db.Setting(ctx, db.SettingDiscogsUsername)
	if err != nil {
		return err
	}
	lastSynced, err := a.db.Setting(ctx, db.SettingLastSynced)
	if err != nil {
		return err
	}

	fmt.Printf("discogs_username: %s\n", saved)
	fmt.Printf("collection_last_synced: %s\n", lastSynced)

	return nil
}
