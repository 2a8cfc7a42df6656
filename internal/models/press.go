package models

import (
	"time"
)

// PressArticle represents a press mention or review of the company
type PressArticle struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:300;not null" json:"title"`
	Outlet      string     `gorm:"size:150;not null" json:"outlet"` // Le Monde, Télérama, ...
	URL         string     `gorm:"size:500" json:"url"`
	Excerpt     string     `gorm:"type:text" json:"excerpt"`
	PublishedOn *time.Time `gorm:"index" json:"published_on"`
	SpectacleID *uint      `gorm:"index" json:"spectacle_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Spectacle *Spectacle `gorm:"foreignKey:SpectacleID" json:"spectacle,omitempty"`
}

// TableName specifies the table name for PressArticle
func (PressArticle) TableName() string {
	return "press_articles"
}
