package models

import (
	"time"
)

// Partner tiers
const (
	PartnerTierInstitutional = "institutionnel"
	PartnerTierPatron        = "mecene"
	PartnerTierMedia         = "media"
)

// Partner represents an institutional or private partner shown on the site
type Partner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	SiteURL   string    `gorm:"size:500" json:"site_url"`
	LogoPath  string    `gorm:"size:500" json:"logo_path"`
	Tier      string    `gorm:"size:30;not null;default:institutionnel" json:"tier"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Partner
func (Partner) TableName() string {
	return "partners"
}

// TeamMember represents a member of the company shown on the team page
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:150;not null" json:"full_name"`
	Role      string    `gorm:"size:150;not null" json:"role"` // metteur en scène, comédien, ...
	Bio       string    `gorm:"type:text" json:"bio"`
	PhotoPath string    `gorm:"size:500" json:"photo_path"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for TeamMember
func (TeamMember) TableName() string {
	return "team_members"
}
