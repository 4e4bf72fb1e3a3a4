package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// Event represents one discrete monitoring signal inside a session. Events
// are immutable once created and ordered by timestamp within a session.
type Event struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	EventType string    `gorm:"not null;index" json:"event_type"`
	EventData JSONMap   `gorm:"type:jsonb" json:"event_data,omitempty"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Severity  string    `gorm:"not null;default:'low'" json:"severity"`
}

// TableName returns the table name for Event model
func (Event) TableName() string {
	return "events"
}

// ToRisk converts the record into the engine's event view.
func (e *Event) ToRisk() risk.Event {
	return risk.Event{
		SessionID: e.SessionID,
		Type:      e.EventType,
		Data:      e.EventData,
		Timestamp: e.Timestamp,
		Severity:  risk.Severity(e.Severity),
	}
}

// EventsToRisk converts a slice of records, preserving timestamp order.
func EventsToRisk(events []Event) []risk.Event {
	out := make([]risk.Event, len(events))
	for i := range events {
		out[i] = events[i].ToRisk()
	}
	return out
}
