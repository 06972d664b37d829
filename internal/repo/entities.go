package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// Upsert inserts rec or, when a row with the same id exists, overwrites every
// column with rec's values. Associations are never written.
func Upsert[T domain.Entity](ctx context.Context, db *gorm.DB, rec *T) error {
	if (*rec).EntityID() == "" || (*rec).OwnerID() == "" {
		return ErrMissingID
	}
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(rec).Error
}

// Get fetches the row with the given id owned by userID. It returns
// ErrNotFound when absent and a *DeserializationError when a structured
// column of the row cannot be decoded.
func Get[T domain.Entity](ctx context.Context, db *gorm.DB, id, userID string) (*T, error) {
	var out T
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	if err := checkDecoded(out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Owner returns the user id owning the row with the given id, regardless of
// who asks. found is false when no such row exists.
func Owner[T domain.Entity](ctx context.Context, db *gorm.DB, id string) (owner string, found bool, err error) {
	var zero T
	var rows []string
	err = db.WithContext(ctx).
		Model(&zero).
		Where("id = ?", id).
		Limit(1).
		Pluck("user_id", &rows).Error
	if err != nil || len(rows) == 0 {
		return "", false, err
	}
	return rows[0], true, nil
}

// Delete removes the row with the given id owned by userID. It returns
// ErrNotFound when nothing was deleted.
func Delete[T domain.Entity](ctx context.Context, db *gorm.DB, id, userID string) error {
	var zero T
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&zero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// list runs q and splits the result into decodable rows and one
// DeserializationError per malformed row.
func list[T domain.Entity](q *gorm.DB) ([]T, error) {
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	var errs []error
	for _, r := range rows {
		if err := checkDecoded(r); err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, r)
	}
	return out, errors.Join(errs...)
}

func checkDecoded[T domain.Entity](rec T) error {
	d, ok := any(rec).(domain.Decodable)
	if !ok {
		return nil
	}
	field, err := d.DecodeErr()
	if err == nil {
		return nil
	}
	return &DeserializationError{Table: rec.Kind(), ID: rec.EntityID(), Field: field, Err: err}
}

// idsOf returns the ids of rows of T matching the where clause.
func idsOf[T domain.Entity](ctx context.Context, db *gorm.DB, query string, args ...any) ([]string, error) {
	var zero T
	var ids []string
	err := db.WithContext(ctx).
		Model(&zero).
		Where(query, args...).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}
