package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
)

func (a *app) show(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	id, err := strconv.ParseInt(flags.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("show needs a discogs release id")
	}

	release, err := a.db.GetRelease(ctx, id)
	if err != nil {
		return err
	}

	release, err = a.fetcher.Enrich(ctx, release)
	if err != nil {
		return fmt.Errorf("enrich error: %w", err)
	}

	fmt.Printf("%s - %s\n", release.Artist, release.Title)
	if release.Year != nil {
		fmt.Printf("year: %d\n", *release.Year)
	}
	if release.Label != "" {
		fmt.Printf("label: %s (%s)\n", release.Label, release.CatalogNumber)
	}
	if len(release.Genres) > 0 {
		fmt.Printf("genres: %s\n", strings.Join(release.Genres, ", "))
	}
	if len(release.Styles) > 0 {
		fmt.Printf("styles: %s\n", strings.Join(release.Styles, ", "))
	}
	if release.LowestPrice != nil {
		fmt.Printf("lowest price: %.2f\n", *release.LowestPrice)
	}
	if release.MedianPrice != nil && release.HighestPrice != nil {
		fmt.Printf("price range (median/highest): %.2f / %.2f\n", *release.MedianPrice, *release.HighestPrice)
	}
	for _, track := range release.Tracklist {
		fmt.Printf("  %s\t%s\t%s\n", track.Position, track.Title, track.Duration)
	}
	if release.Notes != "" {
		fmt.Printf("\n%s\n", release.Notes)
	}
	fmt.Println(release.DiscogsURI)

	return nil
}
