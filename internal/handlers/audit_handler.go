package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get a filtered, paginated list of audit log entries
// @Tags Audit
// @Accept json
// @Produce json
// @Param action query string false "Action (INSERT, UPDATE, DELETE)"
// @Param table_name query string false "Table name"
// @Param user_id query string false "Acting user id"
// @Param date_from query string false "Start of date range (inclusive)"
// @Param date_to query string false "End of date range (inclusive)"
// @Param search query string false "Free-text search"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(50)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	filter, err := services.ParseAuditFilter(c.Request.URL.Query())
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logs, total, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrDecodeFailed) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audits": logs,
		"pagination": gin.H{
			"total": total,
			"page":  filter.Page,
			"limit": filter.Limit,
		},
	})
}

// @Summary Export Audit Logs
// @Description Download the filtered audit trail as CSV, capped at 10000 rows
// @Tags Audit
// @Produce text/csv
// @Param action query string false "Action (INSERT, UPDATE, DELETE)"
// @Param table_name query string false "Table name"
// @Param user_id query string false "Acting user id"
// @Param date_from query string false "Start of date range (inclusive)"
// @Param date_to query string false "End of date range (inclusive)"
// @Param search query string false "Free-text search"
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /audits/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	filter, err := services.ParseAuditFilter(c.Request.URL.Query())
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buf, filename, err := h.auditService.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrDecodeFailed) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// @Summary Audit Filter Options
// @Description Distinct table names and acting users, for the filter dropdowns
// @Tags Audit
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits/filter_options [get]
func (h *AuditHandler) FilterOptions(c *gin.Context) {
	tables, err := h.auditService.TableNames(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	users, err := h.auditService.Users(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"table_names": tables, "users": users})
}
