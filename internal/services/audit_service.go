package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"gorm.io/datatypes"
)

// ExportMaxRows is the hard cap on any single CSV export, independent of how
// many rows actually match the filter
const ExportMaxRows = 10000

// csvHeader is the fixed, ordered column set of audit exports. Old/new value
// snapshots are unbounded structured data and stay out of the flat format.
var csvHeader = []string{"ID", "Date", "Utilisateur", "Action", "Table", "Record ID", "Adresse IP"}

type AuditService struct {
	repo          repository.AuditLogRepository
	retentionDays int
	now           func() time.Time
}

func NewAuditService(repo repository.AuditLogRepository, retentionDays int) *AuditService {
	return &AuditService{repo: repo, retentionDays: retentionDays, now: time.Now}
}

// Record writes an audit entry for a mutation performed by a service.
// Snapshots are marshalled as JSON; a nil snapshot stays NULL.
func (s *AuditService) Record(ctx context.Context, userID *string, action, table string, recordID *string, oldValues, newValues interface{}, ip, userAgent string) error {
	entry := &models.AuditLog{
		Action:   action,
		Table:    table,
		RecordID: recordID,
		UserID:   userID,
	}
	if s.retentionDays > 0 {
		expires := s.now().AddDate(0, 0, s.retentionDays)
		entry.ExpiresAt = &expires
	}
	if ip != "" {
		entry.IPAddress = &ip
	}
	if userAgent != "" {
		entry.UserAgent = &userAgent
	}

	var err error
	if entry.OldValues, err = marshalSnapshot(oldValues); err != nil {
		return err
	}
	if entry.NewValues, err = marshalSnapshot(newValues); err != nil {
		return err
	}

	return s.repo.Record(ctx, entry)
}

func marshalSnapshot(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("instantané d'audit invalide: %w", err)
	}
	return datatypes.JSON(data), nil
}

// List retrieves one page of audit logs plus the total count matching the
// filter. The filter must come from ParseAuditFilter.
func (s *AuditService) List(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
	return s.repo.FetchPage(ctx, filter)
}

// TableNames returns the distinct table names present in the audit trail
func (s *AuditService) TableNames(ctx context.Context) ([]string, error) {
	return s.repo.DistinctTableNames(ctx)
}

// Users returns the distinct acting users present in the audit trail
func (s *AuditService) Users(ctx context.Context) ([]models.AuditActor, error) {
	return s.repo.DistinctUsers(ctx)
}

// PurgeExpired removes audit entries past their retention horizon
func (s *AuditService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}

// ExportCSV produces a complete CSV export honoring the caller's filter with
// pagination overridden: pages of the maximum size are fetched sequentially
// until the full result set or the export cap is reached. Any page failure
// aborts the whole export; a partial CSV is never returned. The pages are
// separate reads, not one transaction, so rows inserted mid-export may be
// skipped or duplicated across a page boundary.
func (s *AuditService) ExportCSV(ctx context.Context, filter *models.AuditLogFilter) (*bytes.Buffer, string, error) {
	pageFilter := *filter
	pageFilter.Page = 1
	pageFilter.Limit = models.AuditMaxPageSize

	rows, total, err := s.repo.FetchPage(ctx, &pageFilter)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrExportAborted, err)
	}

	maxPages := pagesNeeded(total)
	if capPages := pagesNeeded(ExportMaxRows); maxPages > capPages {
		maxPages = capPages
	}

	accumulated := rows
	for page := 2; page <= maxPages && len(accumulated) < ExportMaxRows; page++ {
		pageFilter.Page = page
		rows, _, err = s.repo.FetchPage(ctx, &pageFilter)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrExportAborted, err)
		}
		accumulated = append(accumulated, rows...)
	}

	if len(accumulated) > ExportMaxRows {
		accumulated = accumulated[:ExportMaxRows]
	}

	buf, err := writeCSV(accumulated)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrExportAborted, err)
	}

	filename := fmt.Sprintf("audit-logs-%s.csv", s.now().Format("2006-01-02"))
	return buf, filename, nil
}

func pagesNeeded(total int64) int {
	pages := total / models.AuditMaxPageSize
	if total%models.AuditMaxPageSize != 0 {
		pages++
	}
	return int(pages)
}

func writeCSV(logs []models.AuditLog) (*bytes.Buffer, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, entry := range logs {
		record := []string{
			strconv.FormatInt(entry.ID, 10),
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			stringOrEmpty(entry.UserEmail),
			entry.Action,
			entry.Table,
			stringOrEmpty(entry.RecordID),
			stringOrEmpty(entry.IPAddress),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
