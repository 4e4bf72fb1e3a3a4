package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/cache"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

type mockBaselineSource struct {
	mock.Mock
}

func (m *mockBaselineSource) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Baseline, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Baseline), args.Error(1)
}

func (m *mockBaselineSource) MergeSample(ctx context.Context, userID uuid.UUID, sample risk.Sample) (*models.Baseline, bool, error) {
	args := m.Called(ctx, userID, sample)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Baseline), args.Bool(1), args.Error(2)
}

func testBaseline(userID uuid.UUID) *models.Baseline {
	typing := 52.0
	return &models.Baseline{
		ID:             uuid.New(),
		UserID:         userID,
		Features:       models.FeatureMap{"typing_speed_wpm": typing},
		TypingSpeedWPM: &typing,
		SampleCount:    3,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func TestCachedBaselineStoreGetByUser(t *testing.T) {
	userID := uuid.New()
	baseline := testBaseline(userID)

	source := new(mockBaselineSource)
	source.On("GetByUser", mock.Anything, userID).Return(baseline, nil).Once()

	c := cache.NewMemoryCache(time.Minute)
	defer c.Close()

	store := NewCachedBaselineStore(source, c, nil)

	// First read misses the cache and hits the source.
	got, err := store.GetByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, baseline.UserID, got.UserID)

	// Second read is served from cache; the source is not called again.
	got, err = store.GetByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, baseline.SampleCount, got.SampleCount)

	source.AssertNumberOfCalls(t, "GetByUser", 1)
}

func TestCachedBaselineStoreGetByUserNotFound(t *testing.T) {
	userID := uuid.New()

	source := new(mockBaselineSource)
	source.On("GetByUser", mock.Anything, userID).Return(nil, ErrNotFound)

	c := cache.NewMemoryCache(time.Minute)
	defer c.Close()

	store := NewCachedBaselineStore(source, c, nil)

	_, err := store.GetByUser(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedBaselineStoreMergeWritesThrough(t *testing.T) {
	userID := uuid.New()
	merged := testBaseline(userID)
	sample := risk.Sample{Features: map[string]float64{"typing_speed_wpm": 55}}

	source := new(mockBaselineSource)
	source.On("MergeSample", mock.Anything, userID, sample).Return(merged, true, nil).Once()

	c := cache.NewMemoryCache(time.Minute)
	defer c.Close()

	store := NewCachedBaselineStore(source, c, nil)

	got, created, err := store.MergeSample(context.Background(), userID, sample)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, merged.UserID, got.UserID)

	// The merged baseline is now readable without touching the source.
	cached, err := store.GetByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, merged.SampleCount, cached.SampleCount)
	source.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything)
}
