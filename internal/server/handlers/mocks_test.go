package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockExamStore struct {
	mock.Mock
}

func (m *MockExamStore) Create(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamStore) List(ctx context.Context, filter database.ExamFilter) ([]models.Exam, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Exam), args.Error(1)
}

func (m *MockExamStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Start(ctx context.Context, examID, userID uuid.UUID) (*models.ExamSession, bool, error) {
	args := m.Called(ctx, examID, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.ExamSession), args.Bool(1), args.Error(2)
}

func (m *MockSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ExamSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSession), args.Error(1)
}

func (m *MockSessionStore) GetActive(ctx context.Context, examID, userID uuid.UUID) (*models.ExamSession, error) {
	args := m.Called(ctx, examID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSession), args.Error(1)
}

func (m *MockSessionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ExamSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExamSession), args.Error(1)
}

func (m *MockSessionStore) Submit(ctx context.Context, id uuid.UUID, sub database.Submission) (*models.ExamSession, error) {
	args := m.Called(ctx, id, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSession), args.Error(1)
}

func (m *MockSessionStore) UpdateRisk(ctx context.Context, id uuid.UUID, riskScore float64, alertRaised bool) error {
	args := m.Called(ctx, id, riskScore, alertRaised)
	return args.Error(0)
}

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Event, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventStore) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type MockAlertStore struct {
	mock.Mock
}

func (m *MockAlertStore) Create(ctx context.Context, alert *models.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Alert, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Alert), args.Error(1)
}

func (m *MockAlertStore) ListUnresolved(ctx context.Context, limit int) ([]models.Alert, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Alert), args.Error(1)
}

func (m *MockAlertStore) Resolve(ctx context.Context, id, resolvedBy uuid.UUID) (*models.Alert, error) {
	args := m.Called(ctx, id, resolvedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

type MockBaselineStore struct {
	mock.Mock
}

func (m *MockBaselineStore) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Baseline, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Baseline), args.Error(1)
}

func (m *MockBaselineStore) MergeSample(ctx context.Context, userID uuid.UUID, sample risk.Sample) (*models.Baseline, bool, error) {
	args := m.Called(ctx, userID, sample)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Baseline), args.Bool(1), args.Error(2)
}

type MockAlertNotifier struct {
	mock.Mock
}

func (m *MockAlertNotifier) BroadcastAlert(alert *models.Alert) {
	m.Called(alert)
}
