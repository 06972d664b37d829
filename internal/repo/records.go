package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// ListTemplates returns a user's templates by name.
func ListTemplates(ctx context.Context, db *gorm.DB, userID string) ([]domain.Template, error) {
	return list[domain.Template](db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Order("id"))
}

// ListMeasurements returns a user's measurements, newest first. An empty
// metric returns every kind.
func ListMeasurements(ctx context.Context, db *gorm.DB, userID, metric string) ([]domain.Measurement, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if metric != "" {
		q = q.Where("metric = ?", metric)
	}
	return list[domain.Measurement](q.Order("measured_at desc").Order("id"))
}

// ListGoals returns a user's goals, open goals first.
func ListGoals(ctx context.Context, db *gorm.DB, userID string) ([]domain.Goal, error) {
	return list[domain.Goal](db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("achieved_at IS NOT NULL").
		Order("created_at").
		Order("id"))
}

// ListAchievements returns a user's unlocked achievements in unlock order.
func ListAchievements(ctx context.Context, db *gorm.DB, userID string) ([]domain.Achievement, error) {
	return list[domain.Achievement](db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at").
		Order("id"))
}

// GetPreferences returns the preferences row of a user, or ErrNotFound.
func GetPreferences(ctx context.Context, db *gorm.DB, userID string) (*domain.UserPreference, error) {
	var p domain.UserPreference
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	if err := checkDecoded(p); err != nil {
		return nil, err
	}
	return &p, nil
}
