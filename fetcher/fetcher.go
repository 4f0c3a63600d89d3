// Package fetcher orchestrates collection ingestion from Discogs into the
// local database, and per-release enrichment with full detail and pricing.
//
// Ingestion is deliberately sequential: pages and per-item calls are
// serialized with pacing delays to stay inside Discogs' rate limits.
// Concurrent syncs for the same username are not coordinated; overlapping
// runs waste API calls but cannot corrupt the store, since every write is an
// idempotent upsert.
package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/isAdamBailey/black-circles/data"
	"github.com/isAdamBailey/black-circles/db"
	"github.com/isAdamBailey/black-circles/discogs"
	"github.com/isAdamBailey/black-circles/limiter"
	"go.uber.org/zap"
)

const (
	perPage = 100

	// pacing between item requests: slower when pricing is fetched,
	// since each item then costs two API calls
	itemDelay     = 1500 * time.Millisecond
	fastItemDelay = 500 * time.Millisecond
	pageDelay     = 2 * time.Second
)

// A Fetcher syncs a Discogs collection into the database and enriches
// stored releases.
type Fetcher struct {
	db       *db.DB
	discogs  *discogs.Client
	currency string
	log      *zap.Logger

	// optional per-page progress sink; nil is a no-op
	progress func(string)

	sleep func(context.Context, time.Duration) error
}

func New(database *db.DB, client *discogs.Client, currency string, log *zap.Logger) *Fetcher {
	if currency == "" {
		currency = "USD"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		db:       database,
		discogs:  client,
		currency: currency,
		log:      log,
		sleep:    limiter.Sleep,
	}
}

// SetProgress installs a sink for human-readable progress messages, one per
// synced page. A nil sink disables progress reporting.
func (f *Fetcher) SetProgress(sink func(string)) {
	f.progress = sink
}

func (f *Fetcher) report(message string) {
	if f.progress != nil {
		f.progress(message)
	}
}

// Sync walks every page of the user's collection, upserting releases and
// collection items and replacing genre/style associations. Unless skipPrices
// is set, each release's lowest marketplace price is fetched as well.
//
// External failures terminate the walk rather than erroring: Sync always
// returns the count of items processed so far. A zero count with no error
// means the username is unknown or the remote collection is empty; the two
// are indistinguishable. The "collection_last_synced" setting is written on
// every completion, even a partial one.
func (f *Fetcher) Sync(ctx context.Context, username string, skipPrices bool) (int, error) {
	synced := 0
	page, totalPages := 1, 1

	for page <= totalPages {
		result, err := f.discogs.GetCollectionPage(ctx, username, page, perPage)
		if err != nil {
			f.log.Warn("collection page fetch failed, stopping sync",
				zap.String("username", username),
				zap.Int("page", page),
				zap.Error(err))
			break
		}
		if len(result.Releases) == 0 {
			if page == 1 {
				f.report("No data from Discogs API (page 1). Check username and rate limits.")
			}
			break
		}

		if result.Pagination.Pages > 0 {
			totalPages = result.Pagination.Pages
		}
		f.report(fmt.Sprintf("Page %d/%d: %d releases", page, totalPages, len(result.Releases)))

		for _, item := range result.Releases {
			if err := ctx.Err(); err != nil {
				return synced, f.finishSync(synced, err)
			}

			if item.BasicInformation.ID == 0 {
				continue
			}
			if err := f.syncItem(ctx, &item, skipPrices); err != nil {
				return synced, f.finishSync(synced, err)
			}
			synced++

			delay := itemDelay
			if skipPrices {
				delay = fastItemDelay
			}
			if err := f.sleep(ctx, delay); err != nil {
				return synced, f.finishSync(synced, err)
			}
		}

		page++
		if page <= totalPages {
			if err := f.sleep(ctx, pageDelay); err != nil {
				return synced, f.finishSync(synced, err)
			}
		}
	}

	return synced, f.finishSync(synced, nil)
}

// finishSync records the last-synced timestamp regardless of how the sync
// ended, then hands back the original error.
func (f *Fetcher) finishSync(synced int, cause error) error {
	if err := f.db.SetSetting(context.Background(), db.SettingLastSynced,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		f.log.Warn("failed to record last synced time", zap.Error(err))
	}
	f.log.Info("sync finished", zap.Int("synced", synced))
	return cause
}

func (f *Fetcher) syncItem(ctx context.Context, item *discogs.CollectionRelease, skipPrices bool) error {
	info := &item.BasicInformation
	releaseID := info.ID

	release := &data.Release{
		DiscogsID:  releaseID,
		Title:      orUnknown(info.Title),
		Artist:     artistName(info.Artists),
		Year:       normalizeYear(info.Year),
		CoverImage: info.CoverImage,
		Thumb:      info.Thumb,
		Formats:    mapFormats(info.Formats),
		DiscogsURI: fmt.Sprintf("https://www.discogs.com/release/%d", releaseID),
	}
	if len(info.Labels) > 0 {
		release.Label = info.Labels[0].Name
		release.CatalogNumber = info.Labels[0].CatNo
	}

	if err := f.db.UpsertRelease(ctx, release); err != nil {
		return err
	}
	if err := f.db.ReplaceGenres(ctx, releaseID, info.Genres); err != nil {
		return err
	}
	if err := f.db.ReplaceStyles(ctx, releaseID, info.Styles); err != nil {
		return err
	}

	collectionItem := &data.CollectionItem{
		InstanceID:       item.InstanceID,
		DiscogsReleaseID: releaseID,
		FolderID:         item.FolderID,
		Rating:           item.Rating,
		Notes:            mapFieldNotes(item.Notes),
	}
	if added, err := time.Parse(time.RFC3339, item.DateAdded); err == nil {
		collectionItem.DateAdded.Time, collectionItem.DateAdded.Valid = added, true
	}
	if err := f.db.UpsertCollectionItem(ctx, collectionItem); err != nil {
		return err
	}

	if !skipPrices {
		var lowest *float64
		stats, err := f.discogs.GetMarketStats(ctx, releaseID, f.currency)
		if err == nil && stats.LowestPrice != nil {
			value := stats.LowestPrice.Value
			lowest = &value
		}
		if err := f.db.SetLowestPrice(ctx, releaseID, lowest); err != nil {
			return err
		}
	}

	return nil
}

// artistName joins all artist display names with ", ", preferring the ANV
// over the canonical name when the ANV is non-empty: the ANV is the clean
// display name without Discogs disambiguation suffixes like "(2)".
func artistName(artists []discogs.Artist) string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		name := strings.TrimSpace(artist.ANV)
		if name == "" {
			name = artist.Name
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// normalizeYear treats a non-positive year as unknown.
func normalizeYear(year int) *int {
	if year <= 0 {
		return nil
	}
	return &year
}

func orUnknown(title string) string {
	if title == "" {
		return "Unknown"
	}
	return title
}

func mapFormats(formats []discogs.Format) []data.Format {
	if len(formats) == 0 {
		return nil
	}
	out := make([]data.Format, len(formats))
	for i, format := range formats {
		out[i] = data.Format{
			Name:         format.Name,
			Qty:          format.Qty,
			Text:         format.Text,
			Descriptions: format.Descriptions,
		}
	}
	return out
}

func mapFieldNotes(notes []discogs.FieldNote) []data.FieldNote {
	if len(notes) == 0 {
		return nil
	}
	out := make([]data.FieldNote, len(notes))
	for i, note := range notes {
		out[i] = data.FieldNote{FieldID: note.FieldID, Value: note.Value}
	}
	return out
}
