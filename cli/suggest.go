package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/isAdamBailey/black-circles/suggest"
)

func (a *app) suggest(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("suggest", flag.ContinueOnError)
	count := flags.Int("count", 5, "number of releases to sample")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	slug := flags.Arg(0)
	if slug == "" {
		var slugs []string
		for _, mood := range suggest.Moods() {
			slugs = append(slugs, mood.Slug)
		}
		return fmt.Errorf("no mood; valid moods are %s", strings.Join(slugs, ", "))
	}

	suggestion, err := a.suggester.ForMood(ctx, slug, *count)
	if errors.Is(err, suggest.ErrEmptyCollection) {
		fmt.Println("Your collection is empty. Sync your Discogs collection to get suggestions.")
		return nil
	}
	if err != nil {
		return err
	}

	printSuggestion(suggestion)
	return nil
}

func (a *app) vibe(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("vibe", flag.ContinueOnError)
	count := flags.Int("count", 5, "number of releases to sample")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	prompt := strings.TrimSpace(strings.Join(flags.Args(), " "))
	if length := utf8.RuneCountInString(prompt); length < 3 || length > 500 {
		return fmt.Errorf("prompt must be between 3 and 500 characters")
	}
	if !a.hf.Enabled() {
		return fmt.Errorf("Hugging Face API is not configured; set huggingface.token in config or BLACKCIRCLES_HUGGINGFACE_TOKEN")
	}

	suggestion, err := a.suggester.ForVibe(ctx, prompt, *count)
	if errors.Is(err, suggest.ErrEmptyCollection) {
		fmt.Println("Your collection is empty. Sync your Discogs collection to get suggestions.")
		return nil
	}
	if err != nil {
		return err
	}

	printSuggestion(suggestion)
	return nil
}

func (a *app) random(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("random", flag.ContinueOnError)
	count := flags.Int("count", 1, "number of releases to sample")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	releases, err := a.suggester.Random(ctx, *count)
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		fmt.Println("Your collection is empty. Sync your Discogs collection to get suggestions.")
		return nil
	}

	projections := make([]suggest.Projection, len(releases))
	for i := range releases {
		projections[i] = suggest.Format(&releases[i])
	}
	printProjections(projections)
	return nil
}

func printSuggestion(suggestion *suggest.Suggestion) {
	projections := append([]suggest.Projection{suggestion.Primary}, suggestion.Backups...)
	printProjections(projections)
}

func printProjections(projections []suggest.Projection) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "artist\ttitle\tyear\tgenres\tstyles\n")
	for _, p := range projections {
		year := ""
		if p.Year != nil {
			year = fmt.Sprintf("%d", *p.Year)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.Artist, p.Title, year,
			strings.Join(p.Genres, ", "),
			strings.Join(p.Styles, ", "))
	}

	tw.Flush()
}
