package data

// A Setting is one row of the string key/value settings table. The table
// holds at least "discogs_username" and "collection_last_synced".
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}
