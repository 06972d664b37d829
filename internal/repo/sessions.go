package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// Cascade lists child rows removed together with a parent, so callers can
// record the matching deletes.
type Cascade struct {
	Kind domain.EntityKind
	IDs  []string
}

// ListSessions returns a user's sessions, most recent first. When since is
// non-zero only sessions started at or after it are returned.
func ListSessions(ctx context.Context, db *gorm.DB, userID string, since time.Time) ([]domain.WorkoutSession, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	rows, err := list[domain.WorkoutSession](q.Order("started_at desc").Order("id"))
	if since.IsZero() {
		return rows, err
	}
	// Timestamps are compared in Go: stored values may carry different zone
	// offsets, so text comparison in SQLite is not reliable.
	out := rows[:0]
	for _, s := range rows {
		if !s.StartedAt.Before(since) {
			out = append(out, s)
		}
	}
	return out, err
}

// ListSetLogs returns the sets of one session in set order.
func ListSetLogs(ctx context.Context, db *gorm.DB, userID, sessionID string) ([]domain.SetLog, error) {
	return list[domain.SetLog](db.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("set_index").
		Order("id"))
}

// DeleteSession removes a session and its set logs in one transaction.
func DeleteSession(ctx context.Context, db *gorm.DB, id, userID string) ([]Cascade, error) {
	var removed []Cascade
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		setIDs, err := idsOf[domain.SetLog](ctx, tx, "session_id = ? AND user_id = ?", id, userID)
		if err != nil {
			return err
		}
		if len(setIDs) > 0 {
			if err := tx.Where("session_id = ? AND user_id = ?", id, userID).Delete(&domain.SetLog{}).Error; err != nil {
				return err
			}
			removed = append(removed, Cascade{Kind: domain.KindSetLog, IDs: setIDs})
		}
		return Delete[domain.WorkoutSession](ctx, tx, id, userID)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
