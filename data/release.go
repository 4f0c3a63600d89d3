package data

import "database/sql"

// A Release is one catalog item from Discogs. Releases are created and
// updated by the syncer from the summarized "basic information" payload in a
// collection listing; the extended fields (tracklist, videos, images, notes)
// are filled in later by the enricher from the full release endpoint.
//
// Releases have many genres and styles via the association tables
// release_genres and release_styles.
type Release struct {
	// like 8417419
	DiscogsID int64 `gorm:"primaryKey;autoIncrement:false"`

	Title         string
	Artist        string
	Label         string
	CatalogNumber string

	// nil means unknown; Discogs reports 0 for releases with no year
	Year *int

	CoverImage string
	Thumb      string

	Images    []Image          `gorm:"serializer:json"`
	Formats   []Format         `gorm:"serializer:json"`
	Tracklist []TracklistEntry `gorm:"serializer:json"`
	Videos    []Video          `gorm:"serializer:json"`

	// plain text; markup from the release endpoint is stripped
	Notes string

	DiscogsURI string

	LowestPrice  *float64
	MedianPrice  *float64
	HighestPrice *float64

	// when the full release detail was last fetched; governs the
	// enricher's staleness window
	ReleaseDataCachedAt sql.NullTime

	Genres []string `gorm:"-"`
	Styles []string `gorm:"-"`
}

// An Image is one entry in a release's image list.
type Image struct {
	Type   string `json:"type"`
	URI    string `json:"uri"`
	URI150 string `json:"uri150"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// A Format describes the physical format of a release, like
// {Name: "Vinyl", Qty: "1", Descriptions: ["LP", "Album"]}.
type Format struct {
	Name         string   `json:"name"`
	Qty          string   `json:"qty"`
	Text         string   `json:"text,omitempty"`
	Descriptions []string `json:"descriptions,omitempty"`
}

// A TracklistEntry is one row of a release's tracklist.
type TracklistEntry struct {
	Position string `json:"position"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

// A Video is a linked video for a release.
type Video struct {
	URI      string `json:"uri"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Embed    bool   `json:"embed"`
}
