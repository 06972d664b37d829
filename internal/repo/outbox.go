package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// InsertQueueItem appends item to the outbox.
//
// EnqueuedAt is assigned here as unix milliseconds, bumped past the newest
// queued timestamp when the clock has not advanced (or went backwards), so
// the column is strictly increasing in insertion order. The read of the
// current maximum and the insert share one transaction.
func InsertQueueItem(ctx context.Context, db *gorm.DB, item *domain.SyncQueueItem, now time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&domain.SyncQueueItem{}).
			Select("COALESCE(MAX(enqueued_at), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		ts := now.UnixMilli()
		if ts <= last {
			ts = last + 1
		}
		item.ID = 0
		item.EnqueuedAt = ts
		item.Attempts = 0
		item.LastError = nil
		return tx.Create(item).Error
	})
}

// ListQueueItems returns every queued item in FIFO order.
func ListQueueItems(ctx context.Context, db *gorm.DB) ([]domain.SyncQueueItem, error) {
	var out []domain.SyncQueueItem
	err := db.WithContext(ctx).
		Order("enqueued_at ASC").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// GetQueueItem fetches one queued item, or ErrNotFound.
func GetQueueItem(ctx context.Context, db *gorm.DB, id int64) (*domain.SyncQueueItem, error) {
	var it domain.SyncQueueItem
	if err := db.WithContext(ctx).First(&it, id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// DeleteQueueItem removes one item. It returns ErrNotFound when the id is not
// queued.
func DeleteQueueItem(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Delete(&domain.SyncQueueItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkQueueItemFailed increments attempts and replaces last_error. The item
// keeps its position in the queue.
func MarkQueueItemFailed(ctx context.Context, db *gorm.DB, id int64, msg string) error {
	res := db.WithContext(ctx).
		Model(&domain.SyncQueueItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": msg,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearQueue removes every queued item and returns how many were removed.
func ClearQueue(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Where("1 = 1").Delete(&domain.SyncQueueItem{})
	return res.RowsAffected, res.Error
}

// CountQueueItems returns the number of queued items.
func CountQueueItems(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.SyncQueueItem{}).Count(&n).Error
	return n, err
}
