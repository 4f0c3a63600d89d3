package fetcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/isAdamBailey/black-circles/data"
	"github.com/isAdamBailey/black-circles/discogs"
	"go.uber.org/zap"
)

// Detail data younger than this is not refetched.
const staleAfter = 7 * 24 * time.Hour

// Enrich refreshes a stored release. Full detail (tracklist, videos, notes,
// images, permalink) is refetched only when the cached copy is older than
// the staleness window or absent; the lowest price is refreshed on every
// call. When marketplace stats have no price but a detail fetch happened and
// carried one, the detail price is used as fallback. With an API token
// configured, median and highest prices are derived from Discogs' price
// suggestions; without one they are left untouched.
//
// The returned release is reloaded from the database, so callers observe
// committed state.
func (f *Fetcher) Enrich(ctx context.Context, release *data.Release) (*data.Release, error) {
	var detail *discogs.ReleaseDetail

	fresh := release.ReleaseDataCachedAt.Valid &&
		time.Since(release.ReleaseDataCachedAt.Time) < staleAfter
	if !fresh {
		fetched, err := f.discogs.GetRelease(ctx, release.DiscogsID)
		if err != nil {
			f.log.Warn("release detail fetch failed",
				zap.Int64("discogs_id", release.DiscogsID),
				zap.Error(err))
		} else {
			detail = fetched
			if err := f.applyDetail(ctx, release.DiscogsID, detail); err != nil {
				return nil, err
			}
		}
	}

	var lowest *float64
	stats, err := f.discogs.GetMarketStats(ctx, release.DiscogsID, f.currency)
	if err == nil && stats.LowestPrice != nil {
		value := stats.LowestPrice.Value
		lowest = &value
	}
	if lowest == nil && detail != nil && detail.LowestPrice != nil {
		lowest = detail.LowestPrice
	}
	if err := f.db.SetLowestPrice(ctx, release.DiscogsID, lowest); err != nil {
		return nil, err
	}

	if f.discogs.HasToken() {
		if err := f.applyPriceSuggestions(ctx, release.DiscogsID); err != nil {
			return nil, err
		}
	}

	return f.db.GetRelease(ctx, release.DiscogsID)
}

func (f *Fetcher) applyDetail(ctx context.Context, releaseID int64, detail *discogs.ReleaseDetail) error {
	update := &data.Release{
		DiscogsID: releaseID,
		Tracklist: mapTracklist(detail.Tracklist),
		Videos:    mapVideos(detail.Videos),
		Notes:     stripTags(detail.Notes),
		Year:      normalizeYear(detail.Year),
		Images:    mapImages(detail.Images),
	}
	// prefer the source-provided permalink over the constructed one
	update.DiscogsURI = detail.URI
	if update.DiscogsURI == "" {
		update.DiscogsURI = fmt.Sprintf("https://www.discogs.com/release/%d", releaseID)
	}
	update.ReleaseDataCachedAt.Time, update.ReleaseDataCachedAt.Valid = time.Now(), true

	setImageURLs := false
	if image := primaryImage(detail.Images); image != nil {
		setImageURLs = true
		update.CoverImage = image.URI
		update.Thumb = image.URI150
	}

	return f.db.UpdateReleaseDetail(ctx, update, setImageURLs)
}

func (f *Fetcher) applyPriceSuggestions(ctx context.Context, releaseID int64) error {
	suggestions, err := f.discogs.GetPriceSuggestions(ctx, releaseID)
	if err != nil {
		f.log.Warn("price suggestions fetch failed",
			zap.Int64("discogs_id", releaseID),
			zap.Error(err))
		return nil
	}
	if len(suggestions) == 0 {
		return nil
	}

	values := make([]float64, 0, len(suggestions))
	for _, price := range suggestions {
		values = append(values, price.Value)
	}
	sort.Float64s(values)

	median := values[len(values)/2]
	if len(values)%2 == 0 {
		median = (values[len(values)/2-1] + values[len(values)/2]) / 2
	}
	highest := values[len(values)-1]

	return f.db.SetPriceRange(ctx, releaseID, &median, &highest)
}

// primaryImage picks the image flagged "primary", falling back to the first
// image in the list.
func primaryImage(images []discogs.Image) *discogs.Image {
	for i := range images {
		if images[i].Type == "primary" {
			return &images[i]
		}
	}
	if len(images) > 0 {
		return &images[0]
	}
	return nil
}

// stripTags reduces the detail endpoint's HTML notes to plain text. The
// collection endpoint's notes have a different, structured shape and never
// pass through here.
func stripTags(notes string) string {
	if notes == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(notes))
	if err != nil {
		return notes
	}
	return strings.TrimSpace(doc.Text())
}

func mapTracklist(tracklist []discogs.TrackEntry) []data.TracklistEntry {
	if len(tracklist) == 0 {
		return nil
	}
	out := make([]data.TracklistEntry, len(tracklist))
	for i, track := range tracklist {
		out[i] = data.TracklistEntry{
			Position: track.Position,
			Type:     track.Type,
			Title:    track.Title,
			Duration: track.Duration,
		}
	}
	return out
}

func mapVideos(videos []discogs.Video) []data.Video {
	if len(videos) == 0 {
		return nil
	}
	out := make([]data.Video, len(videos))
	for i, video := range videos {
		out[i] = data.Video{
			URI:      video.URI,
			Title:    video.Title,
			Duration: video.Duration,
			Embed:    video.Embed,
		}
	}
	return out
}

func mapImages(images []discogs.Image) []data.Image {
	if len(images) == 0 {
		return nil
	}
	out := make([]data.Image, len(images))
	for i, image := range images {
		out[i] = data.Image{
			Type:   image.Type,
			URI:    image.URI,
			URI150: image.URI150,
			Width:  image.Width,
			Height: image.Height,
		}
	}
	return out
}
