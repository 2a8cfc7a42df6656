package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// Mock AnalyticsRepository
type mockAnalyticsRepository struct {
	repository.AnalyticsRepository
	mockGetCache        func(ctx context.Context, key string) (*models.AnalyticsCache, error)
	mockSetCache        func(ctx context.Context, key string, data interface{}, ttl time.Duration) error
	mockContentCounts   func(ctx context.Context) (int, int, int, int, int, int, error)
	mockActionBreakdown func(ctx context.Context, since time.Time) (*models.ActionBreakdown, error)
	mockActivityTrend   func(ctx context.Context, days int) ([]models.ActivityPoint, error)
}

func (m *mockAnalyticsRepository) GetCache(ctx context.Context, key string) (*models.AnalyticsCache, error) {
	if m.mockGetCache != nil {
		return m.mockGetCache(ctx, key)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnalyticsRepository) SetCache(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	if m.mockSetCache != nil {
		return m.mockSetCache(ctx, key, data, ttl)
	}
	return nil
}

func (m *mockAnalyticsRepository) ContentCounts(ctx context.Context) (int, int, int, int, int, int, error) {
	if m.mockContentCounts != nil {
		return m.mockContentCounts(ctx)
	}
	return 0, 0, 0, 0, 0, 0, nil
}

func (m *mockAnalyticsRepository) ActionBreakdown(ctx context.Context, since time.Time) (*models.ActionBreakdown, error) {
	if m.mockActionBreakdown != nil {
		return m.mockActionBreakdown(ctx, since)
	}
	return &models.ActionBreakdown{}, nil
}

func (m *mockAnalyticsRepository) ActivityTrend(ctx context.Context, days int) ([]models.ActivityPoint, error) {
	if m.mockActivityTrend != nil {
		return m.mockActivityTrend(ctx, days)
	}
	return nil, nil
}

func TestOverview_ServedFromFreshCache(t *testing.T) {
	cached := models.AnalyticsOverview{Spectacles: 12, MediaAssets: 87, StorageUsedBytes: 2048}
	data, err := json.Marshal(cached)
	assert.NoError(t, err)

	computed := false
	repo := &mockAnalyticsRepository{
		mockGetCache: func(ctx context.Context, key string) (*models.AnalyticsCache, error) {
			assert.Equal(t, "dashboard_overview", key)
			return &models.AnalyticsCache{
				CacheKey:  key,
				Data:      data,
				ExpiresAt: time.Now().Add(10 * time.Minute),
			}, nil
		},
		mockContentCounts: func(ctx context.Context) (int, int, int, int, int, int, error) {
			computed = true
			return 0, 0, 0, 0, 0, 0, nil
		},
	}

	svc := NewAnalyticsService(repo, &mockMediaRepository{})
	overview, err := svc.Overview(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 12, overview.Spectacles)
	assert.Equal(t, int64(2048), overview.StorageUsedBytes)
	assert.False(t, computed, "a fresh cache entry must short-circuit the recomputation")
}

func TestOverview_CacheMissRecomputesAndCaches(t *testing.T) {
	var storedKey string
	var storedTTL time.Duration
	var storedData interface{}

	repo := &mockAnalyticsRepository{
		mockContentCounts: func(ctx context.Context) (int, int, int, int, int, int, error) {
			return 14, 9, 31, 6, 12, 87, nil
		},
		mockActionBreakdown: func(ctx context.Context, since time.Time) (*models.ActionBreakdown, error) {
			return &models.ActionBreakdown{Inserts: 40, Updates: 55, Deletes: 8}, nil
		},
		mockActivityTrend: func(ctx context.Context, days int) ([]models.ActivityPoint, error) {
			return []models.ActivityPoint{{Day: "2026-08-30", Count: 23}}, nil
		},
		mockSetCache: func(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
			storedKey = key
			storedTTL = ttl
			storedData = data
			return nil
		},
	}
	mediaRepo := &mockMediaRepository{
		mockTotalStorageBytes: func(ctx context.Context) (int64, error) {
			return 52428800, nil
		},
	}

	svc := NewAnalyticsService(repo, mediaRepo)
	overview, err := svc.Overview(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 14, overview.Spectacles)
	assert.Equal(t, 9, overview.PublishedSpectacles)
	assert.Equal(t, int64(52428800), overview.StorageUsedBytes)
	assert.Equal(t, 55, overview.ActionBreakdown.Updates)

	// The recomputed overview is upserted under the shared key with the
	// 15 minute TTL
	assert.Equal(t, "dashboard_overview", storedKey)
	assert.Equal(t, 15*time.Minute, storedTTL)
	assert.Equal(t, overview, storedData)
}

func TestOverview_UnreadableCacheIsRecomputed(t *testing.T) {
	computed := false
	repo := &mockAnalyticsRepository{
		mockGetCache: func(ctx context.Context, key string) (*models.AnalyticsCache, error) {
			return &models.AnalyticsCache{
				CacheKey:  key,
				Data:      json.RawMessage(`"pas un objet"`),
				ExpiresAt: time.Now().Add(10 * time.Minute),
			}, nil
		},
		mockContentCounts: func(ctx context.Context) (int, int, int, int, int, int, error) {
			computed = true
			return 3, 1, 0, 0, 0, 0, nil
		},
	}

	svc := NewAnalyticsService(repo, &mockMediaRepository{})
	overview, err := svc.Overview(context.Background())

	assert.NoError(t, err)
	assert.True(t, computed)
	assert.Equal(t, 3, overview.Spectacles)
}

func TestRefreshCache_AlwaysRecomputes(t *testing.T) {
	read := false
	var storedTTL time.Duration
	repo := &mockAnalyticsRepository{
		mockGetCache: func(ctx context.Context, key string) (*models.AnalyticsCache, error) {
			read = true
			return nil, gorm.ErrRecordNotFound
		},
		mockSetCache: func(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
			storedTTL = ttl
			return nil
		},
	}

	svc := NewAnalyticsService(repo, &mockMediaRepository{})
	err := svc.RefreshCache(context.Background())

	assert.NoError(t, err)
	assert.False(t, read, "the scheduled refresh must not serve the stale entry it replaces")
	assert.Equal(t, 15*time.Minute, storedTTL)
}
