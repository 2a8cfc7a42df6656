package models

import (
	"encoding/json"
	"time"
)

// AnalyticsCache represents a cached analytics result
type AnalyticsCache struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CacheKey  string          `gorm:"not null;uniqueIndex" json:"cache_key"`
	Data      json.RawMessage `gorm:"type:jsonb;not null" json:"data"`
	ExpiresAt time.Time       `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for AnalyticsCache
func (AnalyticsCache) TableName() string {
	return "analytics_cache"
}

// AnalyticsOverview represents the admin dashboard numbers
type AnalyticsOverview struct {
	Spectacles          int             `json:"spectacles"`
	PublishedSpectacles int             `json:"published_spectacles"`
	PressArticles       int             `json:"press_articles"`
	Partners            int             `json:"partners"`
	TeamMembers         int             `json:"team_members"`
	MediaAssets         int             `json:"media_assets"`
	StorageUsedBytes    int64           `json:"storage_used_bytes"`
	ActionBreakdown     ActionBreakdown `json:"action_breakdown"`
	ActivityTrend       []ActivityPoint `json:"activity_trend"`
}

// ActionBreakdown counts audit activity per mutation kind
type ActionBreakdown struct {
	Inserts int `json:"inserts"`
	Updates int `json:"updates"`
	Deletes int `json:"deletes"`
}

// ActivityPoint is one day of audit activity in the dashboard chart
type ActivityPoint struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}
