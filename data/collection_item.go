package data

import "database/sql"

// A CollectionItem is one physical copy in the user's Discogs collection,
// 1:1 with a folder slot on the Discogs side. Every item references exactly
// one release by its Discogs id; owning multiple copies of the same release
// means multiple items with distinct instance ids.
type CollectionItem struct {
	// like 1007552414
	InstanceID int64 `gorm:"primaryKey;autoIncrement:false"`

	DiscogsReleaseID int64

	FolderID int64
	Rating   int

	// the collection endpoint returns notes as field/value pairs, a
	// different shape from the release endpoint's free-text notes
	Notes []FieldNote `gorm:"serializer:json"`

	DateAdded sql.NullTime
}

// A FieldNote is one user-defined note field on a collection item, like
// {FieldID: 1, Value: "Media: VG+"}.
type FieldNote struct {
	FieldID int64  `json:"field_id"`
	Value   string `json:"value"`
}
