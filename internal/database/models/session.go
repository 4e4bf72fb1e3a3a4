package models

import (
	"time"

	"github.com/google/uuid"
)

// ExamSession represents one (exam, user) attempt. At most one session per
// pair may be in_progress at a time; the session store enforces this.
// risk_score and integrity_score are exact complements at submission time.
type ExamSession struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ExamID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"exam_id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	StartedAt        time.Time  `gorm:"not null" json:"started_at"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	TimeTakenSeconds *int       `json:"time_taken_seconds,omitempty"`

	Answers JSONMap  `gorm:"type:jsonb" json:"answers,omitempty"`
	Score   *float64 `json:"score,omitempty"`

	RiskScore      float64 `gorm:"not null;default:0.0" json:"risk_score"`
	IntegrityScore float64 `gorm:"not null;default:1.0" json:"integrity_score"`

	Status                string `gorm:"not null;default:'in_progress'" json:"status"`
	FlaggedIncidentsCount int    `gorm:"not null;default:0" json:"flagged_incidents_count"`

	// Relationships
	Events []Event `gorm:"foreignKey:SessionID" json:"events,omitempty"`
	Alerts []Alert `gorm:"foreignKey:SessionID" json:"alerts,omitempty"`
}

// TableName returns the table name for ExamSession model
func (ExamSession) TableName() string {
	return "exam_sessions"
}

// IsActive reports whether the session is still accepting events.
func (s *ExamSession) IsActive() bool {
	return s.Status == SessionStatusInProgress
}
