package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/cache"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// baselineSource is the store being decorated.
type baselineSource interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Baseline, error)
	MergeSample(ctx context.Context, userID uuid.UUID, sample risk.Sample) (*models.Baseline, bool, error)
}

// CachedBaselineStore caches baseline reads. Baselines are read on every
// risk evaluation but only written when a sample is merged, so reads are
// served from cache and merges write through. Cache failures are logged
// and the store falls back to the database.
type CachedBaselineStore struct {
	source baselineSource
	cache  cache.Cache
	log    *logger.Logger
}

// NewCachedBaselineStore wraps source with the given cache.
func NewCachedBaselineStore(source baselineSource, c cache.Cache, log *logger.Logger) *CachedBaselineStore {
	if log == nil {
		log = logger.Default()
	}
	return &CachedBaselineStore{source: source, cache: c, log: log}
}

func baselineCacheKey(userID uuid.UUID) string {
	return "baseline:" + userID.String()
}

// GetByUser returns the cached baseline when present, otherwise loads it
// from the database and caches it.
func (s *CachedBaselineStore) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Baseline, error) {
	key := baselineCacheKey(userID)

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID.String()).Warn("Baseline cache read failed")
	} else if hit {
		var baseline models.Baseline
		if err := json.Unmarshal(data, &baseline); err == nil {
			return &baseline, nil
		}
		// Corrupt entry: drop it and fall through to the database.
		_ = s.cache.Delete(ctx, key)
	}

	baseline, err := s.source.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.put(ctx, key, baseline)
	return baseline, nil
}

// MergeSample delegates to the underlying store and writes the merged
// baseline through to the cache.
func (s *CachedBaselineStore) MergeSample(ctx context.Context, userID uuid.UUID, sample risk.Sample) (*models.Baseline, bool, error) {
	baseline, created, err := s.source.MergeSample(ctx, userID, sample)
	if err != nil {
		return nil, false, err
	}

	s.put(ctx, baselineCacheKey(userID), baseline)
	return baseline, created, nil
}

func (s *CachedBaselineStore) put(ctx context.Context, key string, baseline *models.Baseline) {
	data, err := json.Marshal(baseline)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, 0); err != nil {
		s.log.WithError(err).Warn("Baseline cache write failed")
	}
}
