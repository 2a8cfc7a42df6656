package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Mock AuditLogRepository
type mockAuditRepo struct {
	repository.AuditLogRepository
	mockFetchPage func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error)
}

func (m *mockAuditRepo) FetchPage(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
	if m.mockFetchPage != nil {
		return m.mockFetchPage(ctx, filter)
	}
	return []models.AuditLog{}, 0, nil
}

func auditTestRouter(repo *mockAuditRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuditHandler(services.NewAuditService(repo, 0))

	r := gin.New()
	r.GET("/audits", h.Index)
	r.GET("/audits/export", h.Export)
	return r
}

func TestAuditIndex_InvalidAction(t *testing.T) {
	router := auditTestRouter(&mockAuditRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/audits?action=PATCH", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "action", body["field"])
}

func TestAuditIndex_ReturnsPageAndPagination(t *testing.T) {
	repo := &mockAuditRepo{
		mockFetchPage: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			assert.Equal(t, 2, filter.Page)
			assert.Equal(t, 100, filter.Limit) // clamped from 500
			return []models.AuditLog{
				{ID: 1, Action: "INSERT", Table: "spectacles", CreatedAt: time.Now()},
			}, 321, nil
		},
	}
	router := auditTestRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/audits?page=2&limit=500", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Audits     []models.AuditLog `json:"audits"`
		Pagination struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
		} `json:"pagination"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Audits, 1)
	assert.Equal(t, int64(321), body.Pagination.Total)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 100, body.Pagination.Limit)
}

func TestAuditIndex_DecodeFailureIsBadGateway(t *testing.T) {
	repo := &mockAuditRepo{
		mockFetchPage: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			return nil, 0, fmt.Errorf("%w: action inconnue %q", repository.ErrDecodeFailed, "TRUNCATE")
		},
	}
	router := auditTestRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/audits", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAuditExport_DownloadsCSV(t *testing.T) {
	repo := &mockAuditRepo{
		mockFetchPage: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			return []models.AuditLog{
				{ID: 4, Action: "DELETE", Table: "partners", CreatedAt: time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)},
			}, 1, nil
		},
	}
	router := auditTestRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/audits/export?action=delete", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=audit-logs-")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "ID,Date,Utilisateur,Action,Table,Record ID,Adresse IP")
	assert.Contains(t, w.Body.String(), "4,2026-08-30 08:00:00,,DELETE,partners,,")
}

func TestAuditExport_DecodeFailureIsBadGateway(t *testing.T) {
	repo := &mockAuditRepo{
		mockFetchPage: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			return nil, 0, fmt.Errorf("%w: ligne malformée", repository.ErrDecodeFailed)
		},
	}
	router := auditTestRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/audits/export", nil)
	router.ServeHTTP(w, req)

	// Same taxonomy as the list endpoint: a decode failure is the backend's
	// fault, not ours
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAuditExport_InvalidFilterRejected(t *testing.T) {
	router := auditTestRouter(&mockAuditRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/audits/export?date_from=pas-une-date", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
