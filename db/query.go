package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/isAdamBailey/black-circles/data"
	"gorm.io/gorm"
)

// A release with no collection item is not "in the collection" and is
// excluded from every query here.
const inCollection = `exists (
	select 1 from collection_items
	where collection_items.discogs_release_id = releases.discogs_id
)`

const hasGenreIn = `exists (
	select 1 from release_genres
	join genres on genres.id = release_genres.genre_id
	where release_genres.release_discogs_id = releases.discogs_id
	and genres.name in ?
)`

const hasStyleIn = `exists (
	select 1 from release_styles
	join styles on styles.id = release_styles.style_id
	where release_styles.release_discogs_id = releases.discogs_id
	and styles.name in ?
)`

func (db *DB) collection(ctx context.Context) *gorm.DB {
	return db.WithContext(ctx).Table("releases").Where(inCollection)
}

// GetRelease returns one release by Discogs id, with its genre and style
// names loaded.
func (db *DB) GetRelease(ctx context.Context, discogsID int64) (*data.Release, error) {
	var release data.Release
	if err := db.WithContext(ctx).
		Table("releases").
		Where("discogs_id = ?", discogsID).
		First(&release).
		Error; err != nil {
		return nil, fmt.Errorf("error getting release %d: %w", discogsID, err)
	}
	if err := db.loadNames(ctx, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// MatchingReleases returns a random sample of up to limit collection
// releases that have any of the given genres or any of the given styles, and
// none of the excluded styles. Empty genre and style sets constrain nothing
// on their own; if both are empty no release matches.
func (db *DB) MatchingReleases(ctx context.Context, genres, styles, excludeStyles []string, limit int) ([]data.Release, error) {
	if len(genres) == 0 && len(styles) == 0 {
		return nil, nil
	}

	q := db.collection(ctx)
	switch {
	case len(genres) > 0 && len(styles) > 0:
		q = q.Where("("+hasGenreIn+" or "+hasStyleIn+")", genres, styles)
	case len(genres) > 0:
		q = q.Where(hasGenreIn, genres)
	default:
		q = q.Where(hasStyleIn, styles)
	}
	if len(excludeStyles) > 0 {
		q = q.Where("not "+hasStyleIn, excludeStyles)
	}

	return db.sample(ctx, q, limit)
}

// ReleasesMatchingTerms returns a random sample of collection releases whose
// artist or title contains any of the given terms, case-insensitively.
func (db *DB) ReleasesMatchingTerms(ctx context.Context, terms []string, limit int) ([]data.Release, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(terms))
	args := make([]interface{}, 0, 2*len(terms))
	for _, term := range terms {
		conds = append(conds, "(artist like ? or title like ?)")
		pattern := "%" + term + "%"
		args = append(args, pattern, pattern)
	}

	q := db.collection(ctx).Where(strings.Join(conds, " or "), args...)
	return db.sample(ctx, q, limit)
}

// RandomReleases returns an unconstrained random sample of up to limit
// collection releases.
func (db *DB) RandomReleases(ctx context.Context, limit int) ([]data.Release, error) {
	return db.sample(ctx, db.collection(ctx), limit)
}

// BrowseReleases lists collection releases for the collection page, newest
// first, optionally filtered by a search term over title/artist/label and by
// genre and style names.
func (db *DB) BrowseReleases(ctx context.Context, search string, genres, styles []string, limit, offset int) ([]data.Release, error) {
	q := db.collection(ctx)
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("(title like ? or artist like ? or label like ?)", pattern, pattern, pattern)
	}
	if len(genres) > 0 {
		q = q.Where(hasGenreIn, genres)
	}
	if len(styles) > 0 {
		q = q.Where(hasStyleIn, styles)
	}

	var releases []data.Release
	if err := q.
		Order(`(
			select date_added from collection_items
			where collection_items.discogs_release_id = releases.discogs_id
		) desc`).
		Limit(limit).
		Offset(offset).
		Find(&releases).
		Error; err != nil {
		return nil, fmt.Errorf("error browsing releases: %w", err)
	}
	for i := range releases {
		if err := db.loadNames(ctx, &releases[i]); err != nil {
			return nil, err
		}
	}
	return releases, nil
}

// CollectionCount returns the number of releases in the collection.
func (db *DB) CollectionCount(ctx context.Context) (int64, error) {
	var count int64
	if err := db.collection(ctx).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting collection: %w", err)
	}
	return count, nil
}

// GenreNames returns all known genre names, ordered.
func (db *DB) GenreNames(ctx context.Context) ([]string, error) {
	return db.labelNames(ctx, "genres")
}

// StyleNames returns all known style names, ordered.
func (db *DB) StyleNames(ctx context.Context) ([]string, error) {
	return db.labelNames(ctx, "styles")
}

func (db *DB) labelNames(ctx context.Context, table string) ([]string, error) {
	var names []string
	if err := db.WithContext(ctx).
		Table(table).
		Order("name asc").
		Pluck("name", &names).
		Error; err != nil {
		return nil, fmt.Errorf("error listing %s: %w", table, err)
	}
	return names, nil
}

func (db *DB) sample(ctx context.Context, q *gorm.DB, limit int) ([]data.Release, error) {
	var releases []data.Release
	if err := q.
		Order("random()").
		Limit(limit).
		Find(&releases).
		Error; err != nil {
		return nil, fmt.Errorf("error sampling releases: %w", err)
	}
	for i := range releases {
		if err := db.loadNames(ctx, &releases[i]); err != nil {
			return nil, err
		}
	}
	return releases, nil
}

func (db *DB) loadNames(ctx context.Context, release *data.Release) error {
	if err := db.WithContext(ctx).
		Table("genres").
		Joins("join release_genres on release_genres.genre_id = genres.id").
		Where("release_genres.release_discogs_id = ?", release.DiscogsID).
		Order("genres.name asc").
		Pluck("genres.name", &release.Genres).
		Error; err != nil {
		return fmt.Errorf("error loading genres for release %d: %w", release.DiscogsID, err)
	}
	if err := db.WithContext(ctx).
		Table("styles").
		Joins("join release_styles on release_styles.style_id = styles.id").
		Where("release_styles.release_discogs_id = ?", release.DiscogsID).
		Order("styles.name asc").
		Pluck("styles.name", &release.Styles).
		Error; err != nil {
		return fmt.Errorf("error loading styles for release %d: %w", release.DiscogsID, err)
	}
	return nil
}
