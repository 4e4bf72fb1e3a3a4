package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Exam represents a scheduled assessment with its monitoring policy.
type Exam struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Description     string     `json:"description,omitempty"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	TotalQuestions  int        `gorm:"not null" json:"total_questions"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	Instructions    string     `json:"instructions,omitempty"`

	// Monitoring policy
	MonitoringSensitivity string `gorm:"not null;default:'medium'" json:"monitoring_sensitivity"`
	AllowTabSwitch        bool   `gorm:"not null;default:false" json:"allow_tab_switch"`
	AllowCopyPaste        bool   `gorm:"not null;default:false" json:"allow_copy_paste"`

	Questions QuestionList `gorm:"type:jsonb" json:"questions,omitempty"`
	Status    string       `gorm:"not null;default:'scheduled'" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Relationships
	Sessions []ExamSession `gorm:"foreignKey:ExamID" json:"-"`
}

// Question is one entry in an exam's question bank. Content scoring is out
// of scope; the model only carries what the exam page needs to render.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}

// QuestionList is a JSONB array of questions.
type QuestionList []Question

// Scan implements the sql.Scanner interface for QuestionList
func (q *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*q = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into QuestionList", value)
	}
	return json.Unmarshal(bytes, q)
}

// Value implements the driver.Valuer interface for QuestionList
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return json.Marshal(QuestionList{})
	}
	return json.Marshal(q)
}

// TableName returns the table name for Exam model
func (Exam) TableName() string {
	return "exams"
}
