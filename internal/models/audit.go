package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit log actions. The enum is closed: rows carrying anything else are
// treated as a contract violation by the repository layer.
const (
	AuditActionInsert = "INSERT"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// Pagination bounds imposed by the backend
const (
	AuditDefaultPageSize = 50
	AuditMaxPageSize     = 100
)

// ValidAuditAction reports whether action belongs to the closed enum
func ValidAuditAction(action string) bool {
	switch action {
	case AuditActionInsert, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}

// AuditLog represents one recorded mutation event. Rows are written by the
// services performing the mutation and are never updated or deleted outside
// the retention purge.
type AuditLog struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	Action    string         `gorm:"size:10;not null" json:"action"` // INSERT, UPDATE, DELETE
	Table     string         `gorm:"column:table_name;size:100;not null" json:"table_name"`
	RecordID  *string        `gorm:"size:255" json:"record_id"` // text: primary keys vary in type
	UserID    *string        `gorm:"type:uuid" json:"user_id"`
	UserEmail *string        `gorm:"-" json:"user_email,omitempty"` // resolved by the query join
	OldValues datatypes.JSON `json:"old_values,omitempty"`
	NewValues datatypes.JSON `json:"new_values,omitempty"`
	IPAddress *string        `gorm:"size:45" json:"ip_address"`
	UserAgent *string        `gorm:"size:255" json:"user_agent"`
	ExpiresAt *time.Time     `gorm:"index" json:"expires_at"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditActor is one distinct acting user, used to populate filter options
type AuditActor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuditLogFilter is the canonical, validated set of query parameters for the
// audit log read path. Construct it through services.ParseAuditFilter; once
// handed to the repository it is treated as immutable.
type AuditLogFilter struct {
	Action   *string    `json:"action"`
	Table    *string    `json:"table_name"`
	UserID   *string    `json:"user_id"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Search   *string    `json:"search"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// NewAuditLogFilter creates a filter with default pagination
func NewAuditLogFilter() *AuditLogFilter {
	return &AuditLogFilter{
		Page:  1,
		Limit: AuditDefaultPageSize,
	}
}
