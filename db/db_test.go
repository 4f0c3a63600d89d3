package db_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/isAdamBailey/black-circles/data"
	"github.com/isAdamBailey/black-circles/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

// seed inserts a release, its collection item, and its labels.
func seed(t *testing.T, database *db.DB, release data.Release, genres, styles []string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, database.UpsertRelease(ctx, &release))
	require.NoError(t, database.UpsertCollectionItem(ctx, &data.CollectionItem{
		InstanceID:       release.DiscogsID * 10,
		DiscogsReleaseID: release.DiscogsID,
		DateAdded:        sql.NullTime{Time: time.Now(), Valid: true},
	}))
	require.NoError(t, database.ReplaceGenres(ctx, release.DiscogsID, genres))
	require.NoError(t, database.ReplaceStyles(ctx, release.DiscogsID, styles))
}

func TestUpsertReleaseIsIdempotent(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	release := data.Release{DiscogsID: 100, Title: "Kind of Blue", Artist: "Miles Davis"}
	require.NoError(t, database.UpsertRelease(ctx, &release))

	updated := data.Release{DiscogsID: 100, Title: "Kind of Blue (Remastered)", Artist: "Miles Davis"}
	require.NoError(t, database.UpsertRelease(ctx, &updated))

	got, err := database.GetRelease(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Kind of Blue (Remastered)", got.Title)

	count, err := database.CollectionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count) // no collection item yet
}

func TestUpsertReleaseRequiresID(t *testing.T) {
	database := openTestDB(t)
	err := database.UpsertRelease(context.Background(), &data.Release{Title: "No ID"})
	assert.Error(t, err)
}

func TestResyncPreservesEnrichment(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 200, Title: "Blue Train"}))

	price := 24.99
	require.NoError(t, database.SetLowestPrice(ctx, 200, &price))

	// a second sync pass must not wipe the enricher's columns
	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 200, Title: "Blue Train"}))

	got, err := database.GetRelease(ctx, 200)
	require.NoError(t, err)
	require.NotNil(t, got.LowestPrice)
	assert.Equal(t, 24.99, *got.LowestPrice)
}

func TestSetLowestPriceNilOverwrites(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 300, Title: "A Love Supreme"}))

	price := 18.50
	require.NoError(t, database.SetLowestPrice(ctx, 300, &price))
	require.NoError(t, database.SetLowestPrice(ctx, 300, nil))

	got, err := database.GetRelease(ctx, 300)
	require.NoError(t, err)
	assert.Nil(t, got.LowestPrice)
}

func TestSetPriceRange(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 400, Title: "Maggot Brain"}))

	median, highest := 30.0, 85.0
	require.NoError(t, database.SetPriceRange(ctx, 400, &median, &highest))

	got, err := database.GetRelease(ctx, 400)
	require.NoError(t, err)
	require.NotNil(t, got.MedianPrice)
	require.NotNil(t, got.HighestPrice)
	assert.Equal(t, 30.0, *got.MedianPrice)
	assert.Equal(t, 85.0, *got.HighestPrice)
}

func TestReplaceGenres(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 500, Title: "Remain in Light"}))

	require.NoError(t, database.ReplaceGenres(ctx, 500, []string{"Rock", "Electronic"}))
	got, err := database.GetRelease(ctx, 500)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Rock", "Electronic"}, got.Genres)

	// shrinking the set removes the stale association but keeps the genre row
	require.NoError(t, database.ReplaceGenres(ctx, 500, []string{"Rock"}))
	got, err = database.GetRelease(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rock"}, got.Genres)

	names, err := database.GenreNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Electronic", "Rock"}, names)
}

func TestReplaceGenresSharedAcrossReleases(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 600, Title: "In Rainbows"}))
	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 601, Title: "Kid A"}))

	require.NoError(t, database.ReplaceGenres(ctx, 600, []string{"Rock"}))
	require.NoError(t, database.ReplaceGenres(ctx, 601, []string{"Rock"}))
	require.NoError(t, database.ReplaceGenres(ctx, 600, nil))

	got, err := database.GetRelease(ctx, 601)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rock"}, got.Genres)
}

func TestQueriesOnlySeeCollection(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	seed(t, database, data.Release{DiscogsID: 700, Title: "Owned", Artist: "A"}, []string{"Jazz"}, nil)

	// a release with no collection item is invisible
	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 701, Title: "Wishlist", Artist: "B"}))
	require.NoError(t, database.ReplaceGenres(ctx, 701, []string{"Jazz"}))

	count, err := database.CollectionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	releases, err := database.RandomReleases(ctx, 10)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, int64(700), releases[0].DiscogsID)

	releases, err = database.MatchingReleases(ctx, []string{"Jazz"}, nil, nil, 10)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, int64(700), releases[0].DiscogsID)
}

func TestMatchingReleases(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	seed(t, database, data.Release{DiscogsID: 800, Title: "Dummy", Artist: "Portishead"},
		[]string{"Electronic"}, []string{"Trip Hop"})
	seed(t, database, data.Release{DiscogsID: 801, Title: "Untrue", Artist: "Burial"},
		[]string{"Electronic"}, []string{"Dubstep"})
	seed(t, database, data.Release{DiscogsID: 802, Title: "Nevermind", Artist: "Nirvana"},
		[]string{"Rock"}, []string{"Grunge"})

	// genre OR style
	releases, err := database.MatchingReleases(ctx, []string{"Rock"}, []string{"Dubstep"}, nil, 10)
	require.NoError(t, err)
	assert.Len(t, releases, 2)

	// exclusion wins over an otherwise-matching genre
	releases, err = database.MatchingReleases(ctx, []string{"Electronic"}, nil, []string{"Dubstep"}, 10)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, int64(800), releases[0].DiscogsID)

	// styles-only query with exclusion
	releases, err = database.MatchingReleases(ctx, nil, []string{"Trip Hop", "Dubstep"}, []string{"Trip Hop"}, 10)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, int64(801), releases[0].DiscogsID)

	// nothing to match on
	releases, err = database.MatchingReleases(ctx, nil, nil, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, releases)
}

func TestReleasesMatchingTerms(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	seed(t, database, data.Release{DiscogsID: 900, Title: "Dark Side of the Moon", Artist: "Pink Floyd"}, nil, nil)
	seed(t, database, data.Release{DiscogsID: 901, Title: "The Wall", Artist: "Pink Floyd"}, nil, nil)
	seed(t, database, data.Release{DiscogsID: 902, Title: "Abbey Road", Artist: "The Beatles"}, nil, nil)

	releases, err := database.ReleasesMatchingTerms(ctx, []string{"dark"}, 10)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, int64(900), releases[0].DiscogsID)

	releases, err = database.ReleasesMatchingTerms(ctx, []string{"floyd", "beatles"}, 10)
	require.NoError(t, err)
	assert.Len(t, releases, 3)

	releases, err = database.ReleasesMatchingTerms(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, releases)
}

func TestBrowseReleases(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 1000, Title: "First", Artist: "X", Label: "Blue Note"}))
	require.NoError(t, database.UpsertCollectionItem(ctx, &data.CollectionItem{
		InstanceID: 1, DiscogsReleaseID: 1000,
		DateAdded: sql.NullTime{Time: old, Valid: true},
	}))
	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 1001, Title: "Second", Artist: "Y", Label: "Impulse!"}))
	require.NoError(t, database.UpsertCollectionItem(ctx, &data.CollectionItem{
		InstanceID: 2, DiscogsReleaseID: 1001,
		DateAdded: sql.NullTime{Time: recent, Valid: true},
	}))

	// newest first
	releases, err := database.BrowseReleases(ctx, "", nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, releases, 2)
	assert.Equal(t, int64(1001), releases[0].DiscogsID)

	// search covers the label too
	releases, err = database.BrowseReleases(ctx, "Blue Note", nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, int64(1000), releases[0].DiscogsID)

	// paging
	releases, err = database.BrowseReleases(ctx, "", nil, nil, 1, 1)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, int64(1000), releases[0].DiscogsID)
}

func TestSettings(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	value, err := database.Setting(ctx, db.SettingDiscogsUsername)
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, database.SetSetting(ctx, db.SettingDiscogsUsername, "crate-digger"))
	require.NoError(t, database.SetSetting(ctx, db.SettingDiscogsUsername, "crate_digger"))

	value, err = database.Setting(ctx, db.SettingDiscogsUsername)
	require.NoError(t, err)
	assert.Equal(t, "crate_digger", value)
}

func TestTwoItemsForOneRelease(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.UpsertRelease(ctx, &data.Release{DiscogsID: 1200, Title: "Low"}))
	require.NoError(t, database.UpsertCollectionItem(ctx, &data.CollectionItem{
		InstanceID: 1, DiscogsReleaseID: 1200,
	}))
	require.NoError(t, database.UpsertCollectionItem(ctx, &data.CollectionItem{
		InstanceID: 2, DiscogsReleaseID: 1200,
	}))

	var items int64
	require.NoError(t, database.WithContext(ctx).Table("collection_items").Count(&items).Error)
	assert.Equal(t, int64(2), items)

	count, err := database.CollectionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestValidDiscogsUsername(t *testing.T) {
	assert.True(t, db.ValidDiscogsUsername("crate_digger"))
	assert.True(t, db.ValidDiscogsUsername("Digger-99"))
	assert.False(t, db.ValidDiscogsUsername(""))
	assert.False(t, db.ValidDiscogsUsername("has spaces"))
	assert.False(t, db.ValidDiscogsUsername("semi;colon"))
	assert.False(t, db.ValidDiscogsUsername(strings.Repeat("a", 256)))
}

func TestUpdateReleaseDetail(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.UpsertRelease(ctx, &data.Release{
		DiscogsID: 1100, Title: "Loveless", CoverImage: "synced-cover.jpg",
	}))

	detail := data.Release{
		DiscogsID:  1100,
		Notes:      "Shoegaze landmark.",
		DiscogsURI: "https://www.discogs.com/release/1100",
		Tracklist: []data.TracklistEntry{
			{Position: "A1", Title: "Only Shallow", Duration: "4:17"},
		},
		CoverImage:          "detail-cover.jpg",
		ReleaseDataCachedAt: sql.NullTime{Time: time.Now(), Valid: true},
	}

	// without setImageURLs the synced cover stays
	require.NoError(t, database.UpdateReleaseDetail(ctx, &detail, false))
	got, err := database.GetRelease(ctx, 1100)
	require.NoError(t, err)
	assert.Equal(t, "Shoegaze landmark.", got.Notes)
	require.Len(t, got.Tracklist, 1)
	assert.Equal(t, "Only Shallow", got.Tracklist[0].Title)
	assert.Equal(t, "synced-cover.jpg", got.CoverImage)
	assert.True(t, got.ReleaseDataCachedAt.Valid)

	require.NoError(t, database.UpdateReleaseDetail(ctx, &detail, true))
	got, err = database.GetRelease(ctx, 1100)
	require.NoError(t, err)
	assert.Equal(t, "detail-cover.jpg", got.CoverImage)
}
