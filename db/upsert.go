package db

import (
	"context"
	"fmt"

	"github.com/isAdamBailey/black-circles/data"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// syncColumns are the release columns owned by the sync pass. The enricher's
// columns (tracklist, videos, notes, images, prices, cache timestamp) are
// deliberately left alone so that re-syncing doesn't wipe enrichment.
var syncColumns = []string{
	"title", "artist", "label", "catalog_number", "year",
	"cover_image", "thumb", "formats", "discogs_uri",
}

// UpsertRelease inserts a release keyed by its Discogs id, updating the
// sync-owned columns if the row already exists.
func (db *DB) UpsertRelease(ctx context.Context, release *data.Release) error {
	if release.DiscogsID == 0 {
		return fmt.Errorf("no discogs id")
	}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discogs_id"}},
			DoUpdates: clause.AssignmentColumns(syncColumns),
		}).
		Create(release).
		Error; err != nil {
		return fmt.Errorf("error upserting release %d ('%s'): %w", release.DiscogsID, release.Title, err)
	}
	return nil
}

// UpsertCollectionItem inserts a collection item keyed by its Discogs
// instance id, updating all fields if the row already exists.
func (db *DB) UpsertCollectionItem(ctx context.Context, item *data.CollectionItem) error {
	if item.InstanceID == 0 {
		return fmt.Errorf("no instance id")
	}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "instance_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"discogs_release_id", "folder_id", "rating", "notes", "date_added",
			}),
		}).
		Create(item).
		Error; err != nil {
		return fmt.Errorf("error upserting collection item %d: %w", item.InstanceID, err)
	}
	return nil
}

// ReplaceGenres makes the given names the release's exact genre set: genre
// rows are found or created by name, missing associations are inserted, and
// stale ones are deleted, all in one transaction.
func (db *DB) ReplaceGenres(ctx context.Context, releaseID int64, names []string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceLabels(tx, releaseID, names, labelTables{
			label: "genres", join: "release_genres", joinKey: "genre_id",
		})
	})
}

// ReplaceStyles is ReplaceGenres for styles.
func (db *DB) ReplaceStyles(ctx context.Context, releaseID int64, names []string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceLabels(tx, releaseID, names, labelTables{
			label: "styles", join: "release_styles", joinKey: "style_id",
		})
	})
}

type labelTables struct {
	label   string // "genres" or "styles"
	join    string // association table
	joinKey string // label id column in the association table
}

func replaceLabels(tx *gorm.DB, releaseID int64, names []string, tables labelTables) error {
	desired := make(map[int64]bool, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		id, err := findOrCreateLabel(tx, tables.label, name)
		if err != nil {
			return err
		}
		desired[id] = true
	}

	var current []int64
	if err := tx.
		Table(tables.join).
		Where("release_discogs_id = ?", releaseID).
		Pluck(tables.joinKey, &current).
		Error; err != nil {
		return fmt.Errorf("error reading %s for release %d: %w", tables.join, releaseID, err)
	}

	var extra []int64
	for _, id := range current {
		if desired[id] {
			delete(desired, id)
		} else {
			extra = append(extra, id)
		}
	}

	for id := range desired {
		if err := tx.Exec(
			fmt.Sprintf("insert or ignore into %s (release_discogs_id, %s) values (?, ?)", tables.join, tables.joinKey),
			releaseID, id,
		).Error; err != nil {
			return fmt.Errorf("error associating %s %d with release %d: %w", tables.label, id, releaseID, err)
		}
	}
	if len(extra) > 0 {
		if err := tx.Exec(
			fmt.Sprintf("delete from %s where release_discogs_id = ? and %s in ?", tables.join, tables.joinKey),
			releaseID, extra,
		).Error; err != nil {
			return fmt.Errorf("error removing stale %s from release %d: %w", tables.join, releaseID, err)
		}
	}

	return nil
}

func findOrCreateLabel(tx *gorm.DB, table, name string) (int64, error) {
	var id int64
	err := tx.Table(table).Where("name = ?", name).Pluck("id", &id).Error
	if err != nil {
		return 0, fmt.Errorf("error finding %s '%s': %w", table, name, err)
	}
	if id != 0 {
		return id, nil
	}

	if err := tx.Exec(
		fmt.Sprintf("insert or ignore into %s (name) values (?)", table), name,
	).Error; err != nil {
		return 0, fmt.Errorf("error inserting %s '%s': %w", table, name, err)
	}
	if err := tx.Table(table).Where("name = ?", name).Pluck("id", &id).Error; err != nil {
		return 0, fmt.Errorf("error finding inserted %s '%s': %w", table, name, err)
	}
	return id, nil
}

// SetLowestPrice persists a release's lowest observed ask price. A nil price
// overwrites any stored value; "no listings" is real data.
func (db *DB) SetLowestPrice(ctx context.Context, releaseID int64, price *float64) error {
	if err := db.WithContext(ctx).
		Table("releases").
		Where("discogs_id = ?", releaseID).
		Update("lowest_price", price).
		Error; err != nil {
		return fmt.Errorf("error setting lowest price for release %d: %w", releaseID, err)
	}
	return nil
}

// SetPriceRange persists a release's median and highest suggested prices.
func (db *DB) SetPriceRange(ctx context.Context, releaseID int64, median, highest *float64) error {
	if err := db.WithContext(ctx).
		Table("releases").
		Where("discogs_id = ?", releaseID).
		Updates(map[string]interface{}{
			"median_price":  median,
			"highest_price": highest,
		}).
		Error; err != nil {
		return fmt.Errorf("error setting price range for release %d: %w", releaseID, err)
	}
	return nil
}

// detailColumns are the release columns owned by the enricher.
var detailColumns = []string{
	"tracklist", "videos", "notes", "discogs_uri", "year", "images",
	"release_data_cached_at",
}

// UpdateReleaseDetail persists the enricher's view of a release: tracklist,
// videos, plain-text notes, permalink, year, images, and the detail-cache
// timestamp. Cover and thumb URLs are included only when setImageURLs is
// true (the enricher found a usable image).
func (db *DB) UpdateReleaseDetail(ctx context.Context, release *data.Release, setImageURLs bool) error {
	cols := detailColumns
	if setImageURLs {
		cols = append(append([]string{}, cols...), "cover_image", "thumb")
	}
	if err := db.WithContext(ctx).
		Model(&data.Release{}).
		Where("discogs_id = ?", release.DiscogsID).
		Select(cols).
		Updates(release).
		Error; err != nil {
		return fmt.Errorf("error updating detail for release %d: %w", release.DiscogsID, err)
	}
	return nil
}
