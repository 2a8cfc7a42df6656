package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
	"gorm.io/gorm"
)

// AnalyticsRepository feeds the admin dashboard
type AnalyticsRepository interface {
	GetCache(ctx context.Context, key string) (*models.AnalyticsCache, error)
	SetCache(ctx context.Context, key string, data interface{}, ttl time.Duration) error
	InvalidateCache(ctx context.Context, key string) error
	CleanExpiredCache(ctx context.Context) error

	// Data retrieval for analytics
	ContentCounts(ctx context.Context) (spectacles, published, press, partners, team, media int, err error)
	ActionBreakdown(ctx context.Context, since time.Time) (*models.ActionBreakdown, error)
	ActivityTrend(ctx context.Context, days int) ([]models.ActivityPoint, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetCache(ctx context.Context, key string) (*models.AnalyticsCache, error) {
	var cache models.AnalyticsCache
	err := r.db.WithContext(ctx).
		Where("cache_key = ?", key).
		Where("expires_at > ?", time.Now()).
		First(&cache).Error
	if err != nil {
		return nil, err
	}
	return &cache, nil
}

func (r *analyticsRepository) SetCache(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	cache := models.AnalyticsCache{
		CacheKey:  key,
		Data:      jsonData,
		ExpiresAt: time.Now().Add(ttl),
	}

	// Upsert strategy
	var existing models.AnalyticsCache
	err = r.db.WithContext(ctx).Where("cache_key = ?", key).First(&existing).Error
	if err == nil {
		return r.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
			"data":       jsonData,
			"expires_at": cache.ExpiresAt,
			"updated_at": time.Now(),
		}).Error
	}

	return r.db.WithContext(ctx).Create(&cache).Error
}

func (r *analyticsRepository) InvalidateCache(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("cache_key = ?", key).
		Delete(&models.AnalyticsCache{}).Error
}

func (r *analyticsRepository) CleanExpiredCache(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&models.AnalyticsCache{}).Error
}

func (r *analyticsRepository) ContentCounts(ctx context.Context) (spectacles, published, press, partners, team, media int, err error) {
	counts := []struct {
		model interface{}
		where []interface{}
		dst   *int
	}{
		{&models.Spectacle{}, nil, &spectacles},
		{&models.Spectacle{}, []interface{}{"status = ?", models.SpectacleStatusPublished}, &published},
		{&models.PressArticle{}, nil, &press},
		{&models.Partner{}, nil, &partners},
		{&models.TeamMember{}, nil, &team},
		{&models.MediaAsset{}, nil, &media},
	}

	for _, c := range counts {
		var n int64
		db := r.db.WithContext(ctx).Model(c.model)
		if c.where != nil {
			db = db.Where(c.where[0], c.where[1:]...)
		}
		if err = db.Count(&n).Error; err != nil {
			return
		}
		*c.dst = int(n)
	}
	return
}

func (r *analyticsRepository) ActionBreakdown(ctx context.Context, since time.Time) (*models.ActionBreakdown, error) {
	var rows []struct {
		Action string
		Count  int
	}
	err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Select("action, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := &models.ActionBreakdown{}
	for _, row := range rows {
		switch row.Action {
		case models.AuditActionInsert:
			breakdown.Inserts = row.Count
		case models.AuditActionUpdate:
			breakdown.Updates = row.Count
		case models.AuditActionDelete:
			breakdown.Deletes = row.Count
		}
	}
	return breakdown, nil
}

func (r *analyticsRepository) ActivityTrend(ctx context.Context, days int) ([]models.ActivityPoint, error) {
	var points []models.ActivityPoint
	err := r.db.WithContext(ctx).Raw(
		`SELECT to_char(created_at::date, 'YYYY-MM-DD') AS day, COUNT(*) AS count
		 FROM audit_logs
		 WHERE created_at >= ?
		 GROUP BY created_at::date
		 ORDER BY created_at::date`,
		time.Now().AddDate(0, 0, -days),
	).Scan(&points).Error
	return points, err
}
