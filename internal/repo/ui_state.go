package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// PutUIState stores value under (userID, key), replacing any previous value.
func PutUIState(ctx context.Context, db *gorm.DB, userID, key, value string) error {
	row := &domain.UIStateEntry{UserID: userID, Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "state_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
}

// GetUIState returns the value under (userID, key), or ErrNotFound.
func GetUIState(ctx context.Context, db *gorm.DB, userID, key string) (string, error) {
	var row domain.UIStateEntry
	err := db.WithContext(ctx).
		Where("user_id = ? AND state_key = ?", userID, key).
		First(&row).Error
	return row.Value, err
}

// ClearUIState removes all UI state of a user and reports how many keys went.
func ClearUIState(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.UIStateEntry{})
	return res.RowsAffected, res.Error
}
