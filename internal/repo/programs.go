package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// ListPrograms returns a user's programs ordered by creation time.
func ListPrograms(ctx context.Context, db *gorm.DB, userID string) ([]domain.Program, error) {
	return list[domain.Program](db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Order("id"))
}

// ListProgramExercises returns the exercises of a program by day and position.
func ListProgramExercises(ctx context.Context, db *gorm.DB, userID, programID string) ([]domain.ProgramExercise, error) {
	return list[domain.ProgramExercise](db.WithContext(ctx).
		Where("user_id = ? AND program_id = ?", userID, programID).
		Order("day").
		Order("position").
		Order("id"))
}

// ListProgramProgress returns the completed days of a program in order.
func ListProgramProgress(ctx context.Context, db *gorm.DB, userID, programID string) ([]domain.ProgramProgress, error) {
	return list[domain.ProgramProgress](db.WithContext(ctx).
		Where("user_id = ? AND program_id = ?", userID, programID).
		Order("week").
		Order("day").
		Order("id"))
}

// DeleteProgram removes a program together with its exercises and progress
// rows, and detaches programs derived from it (their parent_id becomes
// NULL). The schema has no ON DELETE CASCADE, so the order here is what keeps
// the foreign keys satisfied. Everything runs in one transaction.
//
// The returned cascades list the removed exercise and progress ids.
func DeleteProgram(ctx context.Context, db *gorm.DB, id, userID string) ([]Cascade, error) {
	var removed []Cascade
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exIDs, err := idsOf[domain.ProgramExercise](ctx, tx, "program_id = ?", id)
		if err != nil {
			return err
		}
		progIDs, err := idsOf[domain.ProgramProgress](ctx, tx, "program_id = ?", id)
		if err != nil {
			return err
		}

		if err := tx.Where("program_id = ?", id).Delete(&domain.ProgramExercise{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", id).Delete(&domain.ProgramProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Program{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := Delete[domain.Program](ctx, tx, id, userID); err != nil {
			return err
		}

		if len(exIDs) > 0 {
			removed = append(removed, Cascade{Kind: domain.KindProgramExercise, IDs: exIDs})
		}
		if len(progIDs) > 0 {
			removed = append(removed, Cascade{Kind: domain.KindProgramProgress, IDs: progIDs})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ChildPrograms returns the ids of programs whose parent is id.
func ChildPrograms(ctx context.Context, db *gorm.DB, id string) ([]string, error) {
	return idsOf[domain.Program](ctx, db, "parent_id = ?", id)
}
