package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// MediaFolder groups media assets in the library
type MediaFolder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for MediaFolder
func (MediaFolder) TableName() string {
	return "media_folders"
}

// MediaAsset represents an uploaded file in the media library
type MediaAsset struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	FileName    string         `gorm:"size:255;not null" json:"file_name"`
	StoragePath string         `gorm:"size:500;not null" json:"storage_path"`
	MimeType    string         `gorm:"size:100" json:"mime_type"`
	SizeBytes   int64          `json:"size_bytes"`
	FolderID    *uint          `gorm:"index" json:"folder_id"`
	Tags        datatypes.JSON `json:"tags"` // flat array of strings
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Associations
	Folder *MediaFolder `gorm:"foreignKey:FolderID" json:"folder,omitempty"`
}

// TableName specifies the table name for MediaAsset
func (MediaAsset) TableName() string {
	return "media_assets"
}

// TagList decodes the JSON tag array, returning nil when unset
func (a *MediaAsset) TagList() []string {
	if len(a.Tags) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(a.Tags, &tags); err != nil {
		return nil
	}
	return tags
}

// SetTags encodes tags into the JSON column, de-duplicating entries
func (a *MediaAsset) SetTags(tags []string) error {
	seen := make(map[string]bool, len(tags))
	unique := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
	}
	data, err := json.Marshal(unique)
	if err != nil {
		return err
	}
	a.Tags = datatypes.JSON(data)
	return nil
}
