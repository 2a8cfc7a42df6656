package handlers

import (
	"net/http"

	"github.com/comedialab/comedia-api/internal/middleware"
	"github.com/comedialab/comedia-api/internal/services"
	"github.com/comedialab/comedia-api/internal/storage"
	"github.com/gin-gonic/gin"
)

// Handlers holds all handler instances
type Handlers struct {
	Health    *HealthHandler
	Spectacle *SpectacleHandler
	Press     *PressHandler
	Partner   *PartnerHandler
	Media     *MediaHandler
	Audit     *AuditHandler
	Analytics *AnalyticsHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, store *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Spectacle: NewSpectacleHandler(svcs.Spectacle, svcs.Report),
		Press:     NewPressHandler(svcs.Press),
		Partner:   NewPartnerHandler(svcs.Partner),
		Media:     NewMediaHandler(svcs.Media, store),
		Audit:     NewAuditHandler(svcs.Audit),
		Analytics: NewAnalyticsHandler(svcs.Analytics, svcs.Export),
	}
}

// HealthHandler answers liveness probes
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// mutationMeta collects the acting-user context recorded with every mutation
func mutationMeta(c *gin.Context) services.MutationMeta {
	meta := services.MutationMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if userID := middleware.GetUserID(c); userID != "" {
		meta.UserID = &userID
	}
	return meta
}
