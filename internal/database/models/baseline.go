package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// Baseline is the persisted form of a user's behavioral profile. At most
// one baseline exists per user; once created it is never deleted while its
// owner exists, and it is mutated exclusively through the engine's merge.
// Named metrics are pointers so that "never observed" and "observed zero"
// stay distinct in storage.
type Baseline struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Features FeatureMap `gorm:"type:jsonb;not null" json:"features"`

	TypingSpeedWPM     *float64 `json:"typing_speed_wpm,omitempty"`
	MouseSpeedPXS      *float64 `json:"mouse_speed_pxs,omitempty"`
	AvgQuestionTimeSec *float64 `json:"avg_question_time_sec,omitempty"`
	TabSwitchRate      *float64 `json:"tab_switch_rate,omitempty"`

	SampleCount int `gorm:"not null;default:1" json:"sample_count"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for Baseline model
func (Baseline) TableName() string {
	return "baselines"
}

// ToRisk converts the record into the engine's baseline view.
func (b *Baseline) ToRisk() *risk.Baseline {
	if b == nil {
		return nil
	}
	return &risk.Baseline{
		UserID:             b.UserID,
		Features:           b.Features,
		TypingSpeedWPM:     b.TypingSpeedWPM,
		MouseSpeedPXS:      b.MouseSpeedPXS,
		AvgQuestionTimeSec: b.AvgQuestionTimeSec,
		TabSwitchRate:      b.TabSwitchRate,
		SampleCount:        b.SampleCount,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// ApplyRisk writes the merged engine baseline back onto the record.
func (b *Baseline) ApplyRisk(merged *risk.Baseline) {
	b.UserID = merged.UserID
	b.Features = merged.Features
	b.TypingSpeedWPM = merged.TypingSpeedWPM
	b.MouseSpeedPXS = merged.MouseSpeedPXS
	b.AvgQuestionTimeSec = merged.AvgQuestionTimeSec
	b.TabSwitchRate = merged.TabSwitchRate
	b.SampleCount = merged.SampleCount
	b.CreatedAt = merged.CreatedAt
	b.UpdatedAt = merged.UpdatedAt
}
