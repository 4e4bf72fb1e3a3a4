package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// BaselineStore provides access to behavioral baseline records. Merges are
// serialized per user with a row-level lock: the engine's 2-point average
// is a read-modify-write and concurrent merges for the same user would
// silently drop a sample's contribution.
type BaselineStore struct {
	db *gorm.DB
}

// GetByUser retrieves the baseline for a user
func (s *BaselineStore) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Baseline, error) {
	var baseline models.Baseline
	if err := s.db.WithContext(ctx).First(&baseline, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get baseline: %w", translateError(err))
	}
	return &baseline, nil
}

// MergeSample folds a behavior sample into the user's baseline under a
// row-level lock, creating the baseline on the user's first sample. The
// second return value reports whether a new baseline was created.
func (s *BaselineStore) MergeSample(ctx context.Context, userID uuid.UUID, sample risk.Sample) (*models.Baseline, bool, error) {
	var record models.Baseline
	created := false
	now := time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "user_id = ?", userID).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			merged := risk.MergeSample(nil, userID, sample, now)
			record = models.Baseline{}
			record.ApplyRisk(merged)
			created = true
			return tx.Create(&record).Error
		case err != nil:
			return err
		default:
			merged := risk.MergeSample(record.ToRisk(), userID, sample, now)
			record.ApplyRisk(merged)
			return tx.Save(&record).Error
		}
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to merge baseline sample: %w", translateError(err))
	}
	return &record, created, nil
}
