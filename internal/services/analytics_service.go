package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/pkg/logger"
)

const (
	overviewCacheKey = "dashboard_overview"
	overviewCacheTTL = 15 * time.Minute

	// Dashboard windows
	breakdownWindowDays = 30
	trendWindowDays     = 30
)

type AnalyticsService struct {
	repo      repository.AnalyticsRepository
	mediaRepo repository.MediaRepository
}

func NewAnalyticsService(repo repository.AnalyticsRepository, mediaRepo repository.MediaRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo, mediaRepo: mediaRepo}
}

// Overview returns the dashboard numbers, served from cache when fresh
func (s *AnalyticsService) Overview(ctx context.Context) (*models.AnalyticsOverview, error) {
	if cached, err := s.repo.GetCache(ctx, overviewCacheKey); err == nil {
		var overview models.AnalyticsOverview
		if err := json.Unmarshal(cached.Data, &overview); err == nil {
			return &overview, nil
		}
		logger.Warn("Discarding unreadable analytics cache entry", "key", overviewCacheKey)
	}

	overview, err := s.computeOverview(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetCache(ctx, overviewCacheKey, overview, overviewCacheTTL); err != nil {
		logger.Warn("Failed to cache analytics overview", "error", err)
	}

	return overview, nil
}

// RefreshCache recomputes and stores the overview, used by the scheduler
func (s *AnalyticsService) RefreshCache(ctx context.Context) error {
	overview, err := s.computeOverview(ctx)
	if err != nil {
		return err
	}
	return s.repo.SetCache(ctx, overviewCacheKey, overview, overviewCacheTTL)
}

// CleanExpiredCache drops stale cache entries, used by the scheduler
func (s *AnalyticsService) CleanExpiredCache(ctx context.Context) error {
	return s.repo.CleanExpiredCache(ctx)
}

// ActivityTrend exposes the daily audit activity chart independently of the
// cached overview
func (s *AnalyticsService) ActivityTrend(ctx context.Context, days int) ([]models.ActivityPoint, error) {
	if days < 1 || days > 365 {
		days = trendWindowDays
	}
	return s.repo.ActivityTrend(ctx, days)
}

func (s *AnalyticsService) computeOverview(ctx context.Context) (*models.AnalyticsOverview, error) {
	spectacles, published, press, partners, team, media, err := s.repo.ContentCounts(ctx)
	if err != nil {
		return nil, err
	}

	storageUsed, err := s.mediaRepo.TotalStorageBytes(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.repo.ActionBreakdown(ctx, time.Now().AddDate(0, 0, -breakdownWindowDays))
	if err != nil {
		return nil, err
	}

	trend, err := s.repo.ActivityTrend(ctx, trendWindowDays)
	if err != nil {
		return nil, err
	}

	return &models.AnalyticsOverview{
		Spectacles:          spectacles,
		PublishedSpectacles: published,
		PressArticles:       press,
		Partners:            partners,
		TeamMembers:         team,
		MediaAssets:         media,
		StorageUsedBytes:    storageUsed,
		ActionBreakdown:     *breakdown,
		ActivityTrend:       trend,
	}, nil
}
