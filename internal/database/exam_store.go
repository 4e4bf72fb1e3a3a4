package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
)

// ExamStore provides access to exam records.
type ExamStore struct {
	db *gorm.DB
}

// ExamFilter contains filtering options for exam queries.
type ExamFilter struct {
	CreatedBy *uuid.UUID
	Status    string
	Limit     int
	Offset    int
}

// Create stores a new exam
func (s *ExamStore) Create(ctx context.Context, exam *models.Exam) error {
	if err := s.db.WithContext(ctx).Create(exam).Error; err != nil {
		return fmt.Errorf("failed to create exam: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves an exam by ID
func (s *ExamStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Exam, error) {
	var exam models.Exam
	if err := s.db.WithContext(ctx).First(&exam, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", translateError(err))
	}
	return &exam, nil
}

// List retrieves exams matching the filter, most recently scheduled first.
func (s *ExamStore) List(ctx context.Context, filter ExamFilter) ([]models.Exam, error) {
	query := s.db.WithContext(ctx).Model(&models.Exam{})

	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var exams []models.Exam
	if err := query.Order("scheduled_date DESC NULLS LAST").Find(&exams).Error; err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	return exams, nil
}

// UpdateStatus transitions an exam's lifecycle status.
func (s *ExamStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := s.db.WithContext(ctx).Model(&models.Exam{}).
		Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update exam status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
