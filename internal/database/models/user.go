package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a platform user, either a student or a proctor.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"unique;not null;index" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`

	// Student metadata
	RollNumber string `json:"roll_number,omitempty"`
	Department string `json:"department,omitempty"`
	Semester   string `json:"semester,omitempty"`
	Phone      string `json:"phone,omitempty"`

	Role           string  `gorm:"not null;default:'student'" json:"role"`
	Accommodations JSONMap `gorm:"type:jsonb" json:"accommodations,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Relationships
	Baselines    []Baseline    `gorm:"foreignKey:UserID" json:"-"`
	ExamSessions []ExamSession `gorm:"foreignKey:UserID" json:"-"`
}

// TableName returns the table name for User model
func (User) TableName() string {
	return "users"
}

// IsProctor checks whether the user carries the proctor role.
func (u *User) IsProctor() bool {
	return u.Role == RoleProctor
}
