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
)

// SessionStore provides access to exam session records. It enforces the
// invariant that at most one session per (exam, user) pair is in_progress
// at a time.
type SessionStore struct {
	db *gorm.DB
}

// Start returns the user's active session for the exam, creating one if
// none exists. The second return value reports whether a new session was
// created.
func (s *SessionStore) Start(ctx context.Context, examID, userID uuid.UUID) (*models.ExamSession, bool, error) {
	var session models.ExamSession
	created := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("exam_id = ? AND user_id = ? AND status = ?",
				examID, userID, models.SessionStatusInProgress).
			First(&session).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		session = models.ExamSession{
			ExamID:         examID,
			UserID:         userID,
			StartedAt:      time.Now().UTC(),
			Status:         models.SessionStatusInProgress,
			IntegrityScore: 1.0,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to start session: %w", translateError(err))
	}
	return &session, created, nil
}

// GetByID retrieves a session by ID
func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ExamSession, error) {
	var session models.ExamSession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get session: %w", translateError(err))
	}
	return &session, nil
}

// GetActive retrieves the in_progress session for an (exam, user) pair.
func (s *SessionStore) GetActive(ctx context.Context, examID, userID uuid.UUID) (*models.ExamSession, error) {
	var session models.ExamSession
	err := s.db.WithContext(ctx).
		Where("exam_id = ? AND user_id = ? AND status = ?",
			examID, userID, models.SessionStatusInProgress).
		First(&session).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", translateError(err))
	}
	return &session, nil
}

// ListByUser retrieves all sessions for a user, most recent first.
func (s *SessionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ExamSession, error) {
	var sessions []models.ExamSession
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Submission carries the fields written to a session at submission time.
type Submission struct {
	SubmittedAt      time.Time
	TimeTakenSeconds *int
	Answers          models.JSONMap
	Score            *float64
	IntegrityScore   float64
	RiskScore        float64
}

// Submit transitions an in_progress session to submitted and records the
// integrity result. Submitting a session that is not in_progress returns
// ErrConflict; submission is terminal for the integrity calculation.
func (s *SessionStore) Submit(ctx context.Context, id uuid.UUID, sub Submission) (*models.ExamSession, error) {
	var session models.ExamSession

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "id = ?", id).Error
		if err != nil {
			return err
		}
		if session.Status != models.SessionStatusInProgress {
			return ErrConflict
		}

		session.SubmittedAt = &sub.SubmittedAt
		session.TimeTakenSeconds = sub.TimeTakenSeconds
		session.Answers = sub.Answers
		session.Score = sub.Score
		session.IntegrityScore = sub.IntegrityScore
		session.RiskScore = sub.RiskScore
		session.Status = models.SessionStatusSubmitted

		return tx.Save(&session).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit session: %w", translateError(err))
	}
	return &session, nil
}

// UpdateRisk records an intermediate live risk score on the session and
// bumps the flagged incident counter when an alert was raised.
func (s *SessionStore) UpdateRisk(ctx context.Context, id uuid.UUID, riskScore float64, alertRaised bool) error {
	updates := map[string]interface{}{"risk_score": riskScore}
	if alertRaised {
		updates["flagged_incidents_count"] = gorm.Expr("flagged_incidents_count + 1")
	}

	result := s.db.WithContext(ctx).Model(&models.ExamSession{}).
		Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update session risk: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Flag marks a session as flagged for intervention. A policy decision by
// the integrating system, never automatic from the scoring formula.
func (s *SessionStore) Flag(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.ExamSession{}).
		Where("id = ? AND status = ?", id, models.SessionStatusInProgress).
		Update("status", models.SessionStatusFlagged)
	if result.Error != nil {
		return fmt.Errorf("failed to flag session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
