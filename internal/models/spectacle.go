package models

import (
	"time"
)

// Spectacle statuses
const (
	SpectacleStatusDraft     = "draft"
	SpectacleStatusPublished = "published"
	SpectacleStatusArchived  = "archived"
)

// Spectacle represents a show produced by the company
type Spectacle struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Slug            string     `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Summary         string     `gorm:"size:500" json:"summary"`
	Description     string     `gorm:"type:text" json:"description"`
	Status          string     `gorm:"size:20;not null;default:draft" json:"status"`
	PremiereOn      *time.Time `json:"premiere_on"`
	DurationMinutes int        `json:"duration_minutes"`
	PosterAssetID   *string    `gorm:"type:uuid" json:"poster_asset_id"`
	PublishedAt     *time.Time `json:"published_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	PressArticles []PressArticle `gorm:"foreignKey:SpectacleID" json:"press_articles,omitempty"`
}

// TableName specifies the table name for Spectacle
func (Spectacle) TableName() string {
	return "spectacles"
}

// MayPublish returns true if the spectacle can be published
func (s *Spectacle) MayPublish() bool {
	return s.Status == SpectacleStatusDraft
}

// MayUnpublish returns true if the spectacle can go back to draft
func (s *Spectacle) MayUnpublish() bool {
	return s.Status == SpectacleStatusPublished
}

// MayArchive returns true if the spectacle can be archived
func (s *Spectacle) MayArchive() bool {
	return s.Status == SpectacleStatusPublished
}

// MayRestore returns true if the spectacle can leave the archive
func (s *Spectacle) MayRestore() bool {
	return s.Status == SpectacleStatusArchived
}

// IsPublished returns true when the spectacle is visible on the public site
func (s *Spectacle) IsPublished() bool {
	return s.Status == SpectacleStatusPublished
}

// SpectacleResponse is the JSON response format
type SpectacleResponse struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Summary         string     `json:"summary"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	PremiereOn      *time.Time `json:"premiere_on"`
	DurationMinutes int        `json:"duration_minutes"`
	PosterAssetID   *string    `json:"poster_asset_id"`
	PublishedAt     *time.Time `json:"published_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToResponse converts Spectacle to SpectacleResponse
func (s *Spectacle) ToResponse() SpectacleResponse {
	return SpectacleResponse{
		ID:              s.ID,
		Title:           s.Title,
		Slug:            s.Slug,
		Summary:         s.Summary,
		Description:     s.Description,
		Status:          s.Status,
		PremiereOn:      s.PremiereOn,
		DurationMinutes: s.DurationMinutes,
		PosterAssetID:   s.PosterAssetID,
		PublishedAt:     s.PublishedAt,
		CreatedAt:       s.CreatedAt,
	}
}
