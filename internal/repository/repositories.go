package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Spectacle SpectacleRepository
	Press     PressRepository
	Partner   PartnerRepository
	Team      TeamRepository
	Media     MediaRepository
	Audit     AuditLogRepository
	Analytics AnalyticsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Spectacle: NewSpectacleRepository(db),
		Press:     NewPressRepository(db),
		Partner:   NewPartnerRepository(db),
		Team:      NewTeamRepository(db),
		Media:     NewMediaRepository(db),
		Audit:     NewAuditLogRepository(db),
		Analytics: NewAnalyticsRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset converts page/per-page into a SQL offset
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
	}
	return false
}
