package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

// Mock AuditLogRepository
type mockAuditLogRepository struct {
	mockFetchPage     func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error)
	mockRecord        func(ctx context.Context, entry *models.AuditLog) error
	mockDeleteExpired func(ctx context.Context) (int64, error)
}

func (m *mockAuditLogRepository) FetchPage(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
	if m.mockFetchPage != nil {
		return m.mockFetchPage(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockAuditLogRepository) DistinctTableNames(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockAuditLogRepository) DistinctUsers(ctx context.Context) ([]models.AuditActor, error) {
	return nil, nil
}

func (m *mockAuditLogRepository) Record(ctx context.Context, entry *models.AuditLog) error {
	if m.mockRecord != nil {
		return m.mockRecord(ctx, entry)
	}
	return nil
}

func (m *mockAuditLogRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.mockDeleteExpired != nil {
		return m.mockDeleteExpired(ctx)
	}
	return 0, nil
}

func fakeAuditLogs(start, count int) []models.AuditLog {
	logs := make([]models.AuditLog, 0, count)
	for i := 0; i < count; i++ {
		email := fmt.Sprintf("user%d@comedialab.fr", (start+i)%7)
		logs = append(logs, models.AuditLog{
			ID:        int64(start + i),
			Action:    models.AuditActionUpdate,
			Table:     "spectacles",
			UserEmail: &email,
			CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		})
	}
	return logs
}

func newTestAuditService(repo *mockAuditLogRepository) *AuditService {
	svc := NewAuditService(repo, 365)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportCSV_OverridesPagination(t *testing.T) {
	var seen []models.AuditLogFilter
	repo := &mockAuditLogRepository{
		mockFetchPage: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			seen = append(seen, *filter)
			return fakeAuditLogs(1, 3), 3, nil
		},
	}
	svc := newTestAuditService(repo)

	action := models.AuditActionDelete
	filter := models.NewAuditLogFilter()
	filter.Action = &action
	filter.Page = 4
	filter.Limit = 25

	_, _, err := svc.ExportCSV(context.Background(), filter)
	assert.NoError(t, err)

	// The export always starts from page 1 at the maximum page size,
	// whatever the screen was showing
	assert.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0].Page)
	assert.Equal(t, models.AuditMaxPageSize, seen[0].Limit)
	assert.Equal(t, models.AuditActionDelete, *seen[0].Action)

	// The caller's filter is left untouched
	assert.Equal(t, 4, filter.Page)
	assert.Equal(t, 25, filter.Limit)
}

func TestExportCSV_CapsAtMaxRows(t *testing.T) {
	calls := 0
	repo := &mockAuditLogRepository{
		mockFetchPage: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			calls++
			start := (filter.Page-1)*models.AuditMaxPageSize + 1
			return fakeAuditLogs(start, models.AuditMaxPageSize), 25000, nil
		},
	}
	svc := newTestAuditService(repo)

	buf, _, err := svc.ExportCSV(context.Background(), models.NewAuditLogFilter())
	assert.NoError(t, err)

	// 25000 matching rows, but only the first 10000 are fetched: 100 pages
	// of 100 rows, and not a single call past the cap
	assert.Equal(t, 100, calls)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, ExportMaxRows+1) // header + capped rows
}

func TestExportCSV_AbortsOnPageFailure(t *testing.T) {
	calls := 0
	repo := &mockAuditLogRepository{
		mockFetchPage: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			calls++
			if filter.Page == 3 {
				return nil, 0, errors.New("connection reset")
			}
			start := (filter.Page-1)*models.AuditMaxPageSize + 1
			return fakeAuditLogs(start, models.AuditMaxPageSize), 500, nil
		},
	}
	svc := newTestAuditService(repo)

	buf, filename, err := svc.ExportCSV(context.Background(), models.NewAuditLogFilter())

	// No partial CSV: the failure on page 3 of 5 discards pages 1 and 2 too
	assert.ErrorIs(t, err, ErrExportAborted)
	assert.Nil(t, buf)
	assert.Empty(t, filename)
	assert.Equal(t, 3, calls)
}

func TestExportCSV_KeepsFailureCause(t *testing.T) {
	repo := &mockAuditLogRepository{
		mockFetchPage: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			return nil, 0, fmt.Errorf("%w: action inconnue %q", repository.ErrDecodeFailed, "TRUNCATE")
		},
	}
	svc := newTestAuditService(repo)

	_, _, err := svc.ExportCSV(context.Background(), models.NewAuditLogFilter())

	// The abort wrap keeps the underlying sentinel visible so callers can
	// still tell a decode failure from a backend outage
	assert.ErrorIs(t, err, ErrExportAborted)
	assert.ErrorIs(t, err, repository.ErrDecodeFailed)
	assert.NotErrorIs(t, err, repository.ErrFetchFailed)
}

func TestExportCSV_WritesHeaderAndRows(t *testing.T) {
	email := "claire@comedialab.fr"
	recordID := "42"
	ip := "10.0.0.5"
	repo := &mockAuditLogRepository{
		mockFetchPage: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			return []models.AuditLog{
				{
					ID:        7,
					Action:    models.AuditActionDelete,
					Table:     "press_articles",
					RecordID:  &recordID,
					UserEmail: &email,
					IPAddress: &ip,
					CreatedAt: time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC),
				},
				{
					ID:        8,
					Action:    models.AuditActionInsert,
					Table:     "spectacles",
					CreatedAt: time.Date(2026, 8, 30, 9, 16, 0, 0, time.UTC),
				},
			}, 2, nil
		},
	}
	svc := newTestAuditService(repo)

	buf, filename, err := svc.ExportCSV(context.Background(), models.NewAuditLogFilter())
	assert.NoError(t, err)
	assert.Equal(t, "audit-logs-2026-08-31.csv", filename)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "ID,Date,Utilisateur,Action,Table,Record ID,Adresse IP", lines[0])
	assert.Equal(t, "7,2026-08-30 09:15:00,claire@comedialab.fr,DELETE,press_articles,42,10.0.0.5", lines[1])
	// Missing optional fields come out as empty cells, never "nil"
	assert.Equal(t, "8,2026-08-30 09:16:00,,INSERT,spectacles,,", lines[2])
}

func TestExportCSV_EmptyResultStillHasHeader(t *testing.T) {
	repo := &mockAuditLogRepository{
		mockFetchPage: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			return []models.AuditLog{}, 0, nil
		},
	}
	svc := newTestAuditService(repo)

	buf, _, err := svc.ExportCSV(context.Background(), models.NewAuditLogFilter())
	assert.NoError(t, err)
	assert.Equal(t, "ID,Date,Utilisateur,Action,Table,Record ID,Adresse IP\n", buf.String())
}

func TestRecord_SetsRetentionHorizon(t *testing.T) {
	var recorded *models.AuditLog
	repo := &mockAuditLogRepository{
		mockRecord: func(ctx context.Context, entry *models.AuditLog) error {
			recorded = entry
			return nil
		},
	}
	svc := newTestAuditService(repo)

	userID := "8b9f2a10-0000-4000-8000-000000000001"
	err := svc.Record(context.Background(), &userID, models.AuditActionInsert, "spectacles", nil,
		nil, map[string]interface{}{"title": "Tartuffe"}, "10.0.0.5", "curl/8.0")

	assert.NoError(t, err)
	assert.NotNil(t, recorded)
	assert.NotNil(t, recorded.ExpiresAt)
	assert.Equal(t, time.Date(2027, 8, 31, 14, 30, 0, 0, time.UTC), *recorded.ExpiresAt)
	assert.JSONEq(t, `{"title":"Tartuffe"}`, string(recorded.NewValues))
	assert.Nil(t, recorded.OldValues)
}

func TestRecord_NoRetentionLeavesExpiryNull(t *testing.T) {
	var recorded *models.AuditLog
	repo := &mockAuditLogRepository{
		mockRecord: func(ctx context.Context, entry *models.AuditLog) error {
			recorded = entry
			return nil
		},
	}
	svc := NewAuditService(repo, 0)

	err := svc.Record(context.Background(), nil, models.AuditActionDelete, "partners", nil, nil, nil, "", "")
	assert.NoError(t, err)
	assert.Nil(t, recorded.ExpiresAt)
	assert.Nil(t, recorded.IPAddress)
	assert.Nil(t, recorded.UserAgent)
}
