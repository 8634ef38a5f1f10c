package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/foodgram/internal/domain/relation"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationRepository stores favorites, shopping-cart entries and
// subscriptions in the user_relations table.
type RelationRepository struct {
	db *gorm.DB
}

// NewRelationRepository creates a new relation repository
func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{db: db}
}

var _ outbound.RelationRepository = (*RelationRepository)(nil)

// Add inserts rel. The existence check and the insert share a transaction and
// the insert itself is ON CONFLICT DO NOTHING against idx_user_relation, so of
// two concurrent adds exactly one stores a row and the other gets
// relation.ErrAlreadyExists.
//
// The target row is held FOR SHARE until commit. A concurrent delete of the
// target either finishes first, and Add fails with relation.ErrTargetNotFound,
// or waits for Add and then removes the new row with the rest.
func (r *RelationRepository) Add(ctx context.Context, rel relation.Relation) error {
	model := RelationToModel(rel)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTarget(tx, rel.Kind, model.TargetID); err != nil {
			return err
		}

		var count int64
		err := tx.Model(&RelationModel{}).
			Where("subject_id = ? AND target_id = ? AND kind = ?", model.SubjectID, model.TargetID, model.Kind).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("check relation: %w", err)
		}
		if count > 0 {
			return relation.ErrAlreadyExists
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
		if result.Error != nil {
			if isUniqueViolation(result.Error) {
				return relation.ErrAlreadyExists
			}
			return fmt.Errorf("insert relation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return relation.ErrAlreadyExists
		}
		return nil
	})
}

func lockTarget(tx *gorm.DB, kind relation.Kind, targetID uuid.UUID) error {
	var target interface{} = &RecipeModel{}
	if kind.TargetType() == relation.TargetUser {
		target = &UserModel{}
	}

	err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
		Select("id").
		Take(target, "id = ?", targetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return relation.ErrTargetNotFound
		}
		return fmt.Errorf("lock relation target: %w", err)
	}
	return nil
}

// Remove deletes one relation row
func (r *RelationRepository) Remove(ctx context.Context, kind relation.Kind, subjectID, targetID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("subject_id = ? AND target_id = ? AND kind = ?", subjectID, targetID, string(kind)).
		Delete(&RelationModel{})
	if result.Error != nil {
		return fmt.Errorf("delete relation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return relation.ErrNotFound
	}
	return nil
}

// Exists reports whether the relation row is present
func (r *RelationRepository) Exists(ctx context.Context, kind relation.Kind, subjectID, targetID uuid.UUID) (bool, error) {
	var model RelationModel
	err := r.db.WithContext(ctx).
		Select("id").
		Where("subject_id = ? AND target_id = ? AND kind = ?", subjectID, targetID, string(kind)).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check relation: %w", err)
	}
	return true, nil
}

// ExistingTargets reports which of targetIDs the subject is related to
func (r *RelationRepository) ExistingTargets(ctx context.Context, kind relation.Kind, subjectID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return found, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&RelationModel{}).
		Where("subject_id = ? AND kind = ? AND target_id IN ?", subjectID, string(kind), targetIDs).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("check relations: %w", err)
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

// ListTargets returns target ids newest first
func (r *RelationRepository) ListTargets(ctx context.Context, kind relation.Kind, subjectID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&RelationModel{}).
		Where("subject_id = ? AND kind = ?", subjectID, string(kind)).
		Order("created_at DESC").
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	return ids, nil
}
