package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
)

// AlertStore provides access to alert records. Alerts are immutable except
// for resolution, which may be applied exactly once.
type AlertStore struct {
	db *gorm.DB
}

// Create stores a new alert
func (s *AlertStore) Create(ctx context.Context, alert *models.Alert) error {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves an alert by ID
func (s *AlertStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	var alert models.Alert
	if err := s.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", translateError(err))
	}
	return &alert, nil
}

// ListBySession retrieves all alerts for a session in creation order.
func (s *AlertStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// ListUnresolved retrieves unresolved alerts across all sessions, newest
// first, for the proctor review queue.
func (s *AlertStore) ListUnresolved(ctx context.Context, limit int) ([]models.Alert, error) {
	query := s.db.WithContext(ctx).
		Where("resolved = ?", false).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var alerts []models.Alert
	if err := query.Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list unresolved alerts: %w", err)
	}
	return alerts, nil
}

// Resolve marks an alert resolved by the given proctor. Resolving an
// already-resolved alert is idempotent when the resolver matches and
// ErrConflict otherwise.
func (s *AlertStore) Resolve(ctx context.Context, id, resolvedBy uuid.UUID) (*models.Alert, error) {
	var alert models.Alert

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&alert, "id = ?", id).Error
		if err != nil {
			return err
		}

		if alert.Resolved {
			if alert.ResolvedBy != nil && *alert.ResolvedBy == resolvedBy {
				return nil
			}
			return ErrConflict
		}

		now := time.Now().UTC()
		alert.Resolved = true
		alert.ResolvedBy = &resolvedBy
		alert.ResolvedAt = &now
		return tx.Save(&alert).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve alert: %w", translateError(err))
	}
	return &alert, nil
}
