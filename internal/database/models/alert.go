package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert represents a durable record of a risk escalation. Immutable except
// for the resolution fields, which a proctor sets exactly once.
type Alert struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	AlertType string    `gorm:"not null" json:"alert_type"`
	Message   string    `gorm:"not null" json:"message"`
	RiskScore float64   `gorm:"not null" json:"risk_score"`
	Severity  string    `gorm:"not null" json:"severity"`

	Resolved   bool       `gorm:"not null;default:false" json:"resolved"`
	ResolvedBy *uuid.UUID `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName returns the table name for Alert model
func (Alert) TableName() string {
	return "alerts"
}
