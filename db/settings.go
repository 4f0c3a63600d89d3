package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/isAdamBailey/black-circles/data"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Keys in the settings table.
const (
	SettingDiscogsUsername = "discogs_username"
	SettingLastSynced      = "collection_last_synced"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidDiscogsUsername reports whether name is storable as the saved Discogs
// username: non-empty, at most 255 characters, only letters, numbers,
// dashes, and underscores.
func ValidDiscogsUsername(name string) bool {
	return name != "" && len(name) <= 255 && usernamePattern.MatchString(name)
}

// Setting returns the value stored under key, or "" if the key is absent.
func (db *DB) Setting(ctx context.Context, key string) (string, error) {
	var setting data.Setting
	err := db.WithContext(ctx).
		Table("settings").
		Where("key = ?", key).
		First(&setting).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error reading setting '%s': %w", key, err)
	}
	return setting.Value, nil
}

// SetSetting stores value under key, replacing any previous value.
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("no setting key")
	}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&data.Setting{Key: key, Value: value}).
		Error; err != nil {
		return fmt.Errorf("error writing setting '%s': %w", key, err)
	}
	return nil
}
