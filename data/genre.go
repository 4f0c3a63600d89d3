package data

// Genres are broad Discogs labels like "Rock". They are created lazily the
// first time a sync pass encounters the name, and shared across releases.
//
// Genres have many releases via the association table release_genres.
type Genre struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

// Styles are narrow Discogs labels like "Doom Metal", stored and associated
// the same way genres are, via release_styles.
type Style struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

// A ReleaseGenre represents a many-to-many relationship between releases and
// genres.
type ReleaseGenre struct {
	ReleaseDiscogsID int64
	GenreID          int64
}

// A ReleaseStyle represents a many-to-many relationship between releases and
// styles.
type ReleaseStyle struct {
	ReleaseDiscogsID int64
	StyleID          int64
}
