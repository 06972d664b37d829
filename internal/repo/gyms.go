package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// ListGyms returns a user's gyms, the default gym first.
func ListGyms(ctx context.Context, db *gorm.DB, userID string) ([]domain.Gym, error) {
	return list[domain.Gym](db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default desc").
		Order("name").
		Order("id"))
}

// ListGymEquipment returns the equipment of one gym by name.
func ListGymEquipment(ctx context.Context, db *gorm.DB, userID, gymID string) ([]domain.GymEquipment, error) {
	return list[domain.GymEquipment](db.WithContext(ctx).
		Where("user_id = ? AND gym_id = ?", userID, gymID).
		Order("name").
		Order("id"))
}

// DeleteGym removes a gym and its equipment in one transaction.
func DeleteGym(ctx context.Context, db *gorm.DB, id, userID string) ([]Cascade, error) {
	var removed []Cascade
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eqIDs, err := idsOf[domain.GymEquipment](ctx, tx, "gym_id = ?", id)
		if err != nil {
			return err
		}
		if err := tx.Where("gym_id = ?", id).Delete(&domain.GymEquipment{}).Error; err != nil {
			return err
		}
		if err := Delete[domain.Gym](ctx, tx, id, userID); err != nil {
			return err
		}
		if len(eqIDs) > 0 {
			removed = append(removed, Cascade{Kind: domain.KindGymEquipment, IDs: eqIDs})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
