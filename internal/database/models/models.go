// Package models contains the database models for the ExamPulse platform:
// users, exams, exam sessions, monitoring events, alerts and behavioral
// baselines. The risk engine in pkg/risk treats these as externally
// persisted records it reads and selectively writes.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Common constants for model validation
const (
	// User roles
	RoleStudent = "student"
	RoleProctor = "proctor"

	// Exam status values
	ExamStatusScheduled = "scheduled"
	ExamStatusActive    = "active"
	ExamStatusCompleted = "completed"

	// Exam session status values
	SessionStatusInProgress = "in_progress"
	SessionStatusSubmitted  = "submitted"
	SessionStatusFlagged    = "flagged"

	// Event and alert severity levels
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"

	// Monitoring sensitivity levels for exams
	SensitivityLow    = "low"
	SensitivityMedium = "medium"
	SensitivityHigh   = "high"
)

// JSONMap is a helper type for JSONB fields
type JSONMap map[string]interface{}

// Scan implements the sql.Scanner interface for JSONMap
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONMap)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}

	return json.Unmarshal(bytes, j)
}

// Value implements the driver.Valuer interface for JSONMap
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// FeatureMap is a JSONB mapping from behavioral metric name to value.
// Values are always numeric; non-numeric entries are rejected at the
// ingestion boundary before reaching the risk engine.
type FeatureMap map[string]float64

// Scan implements the sql.Scanner interface for FeatureMap
func (f *FeatureMap) Scan(value interface{}) error {
	if value == nil {
		*f = make(FeatureMap)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into FeatureMap", value)
	}

	return json.Unmarshal(bytes, f)
}

// Value implements the driver.Valuer interface for FeatureMap
func (f FeatureMap) Value() (driver.Value, error) {
	if f == nil {
		return json.Marshal(FeatureMap{})
	}
	return json.Marshal(f)
}
