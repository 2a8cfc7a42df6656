package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/comedialab/comedia-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	exportService    *services.ExportService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, exportService *services.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, exportService: exportService}
}

// @Summary Analytics Overview
// @Description Dashboard counters, action breakdown and activity trend
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.AnalyticsOverview
// @Security BearerAuth
// @Router /analytics [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analyticsService.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analytics": overview})
}

// @Summary Activity Trend
// @Description Daily audit event counts over the requested window
// @Tags Analytics
// @Produce json
// @Param days query int false "Window in days (1-365)" default(30)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /analytics/activity [get]
func (h *AnalyticsHandler) Activity(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trend, err := h.analyticsService.ActivityTrend(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": trend})
}

// @Summary Export Analytics
// @Description Download the dashboard overview as CSV, XLSX or PDF
// @Tags Analytics
// @Produce application/octet-stream
// @Param format query string false "Export format (csv, xlsx, pdf)" default(csv)
// @Success 200 {string} string "File download"
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	overview, err := h.analyticsService.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(c.Request.Context(), overview)
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context(), overview)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.exportService.ExportPDF(c.Request.Context(), overview)
		contentType = "application/pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format non pris en charge"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
