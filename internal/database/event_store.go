package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
)

// EventStore provides access to monitoring event records. Events are
// append-only from the engine's point of view: they are created by the
// ingestion path, read by scoring, and removed only by the retention sweep.
type EventStore struct {
	db *gorm.DB
}

// Create appends a new event
func (s *EventStore) Create(ctx context.Context, event *models.Event) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", translateError(err))
	}
	return nil
}

// ListBySession retrieves all events for a session ordered by timestamp.
// A single query, so scoring sees a consistent snapshot of the event list.
func (s *EventStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// CountBySession returns total and high-severity event counts for a session.
func (s *EventStore) CountBySession(ctx context.Context, sessionID uuid.UUID) (total, highSeverity int64, err error) {
	err = s.db.WithContext(ctx).Model(&models.Event{}).
		Where("session_id = ?", sessionID).Count(&total).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count events: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&models.Event{}).
		Where("session_id = ? AND severity = ?", sessionID, models.SeverityHigh).
		Count(&highSeverity).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count high-severity events: %w", err)
	}

	return total, highSeverity, nil
}

// PruneBefore deletes events older than the cutoff belonging to sessions
// that have left in_progress. Events of live sessions are never pruned;
// the integrity evaluation at submission needs the full stream.
func (s *EventStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Where("session_id IN (?)",
			s.db.Model(&models.ExamSession{}).Select("id").
				Where("status <> ?", models.SessionStatusInProgress)).
		Delete(&models.Event{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
