package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/internal/services"
	"github.com/gin-gonic/gin"
)

type SpectacleHandler struct {
	spectacleService *services.SpectacleService
	reportService    *services.ReportService
}

func NewSpectacleHandler(spectacleService *services.SpectacleService, reportService *services.ReportService) *SpectacleHandler {
	return &SpectacleHandler{spectacleService: spectacleService, reportService: reportService}
}

// @Summary List Spectacles
// @Description Get a paginated list of spectacles
// @Tags Spectacles
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Status filter (draft, published, archived)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /spectacles [get]
func (h *SpectacleHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["status"] = c.Query("status")

	spectacles, total, err := h.spectacleService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.SpectacleResponse, 0, len(spectacles))
	for _, s := range spectacles {
		responses = append(responses, s.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"spectacles": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Spectacle
// @Tags Spectacles
// @Produce json
// @Param spectacle_id path int true "Spectacle ID"
// @Success 200 {object} models.SpectacleResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /spectacles/{spectacle_id} [get]
func (h *SpectacleHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("spectacle_id"), 10, 32)
	spectacle, err := h.spectacleService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Spectacle introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"spectacle": spectacle.ToResponse()})
}

// @Summary Create Spectacle
// @Tags Spectacles
// @Accept json
// @Produce json
// @Param request body models.Spectacle true "Spectacle Data"
// @Success 201 {object} models.SpectacleResponse
// @Security BearerAuth
// @Router /spectacles [post]
func (h *SpectacleHandler) Create(c *gin.Context) {
	var spectacle models.Spectacle
	if err := c.ShouldBindJSON(&spectacle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if spectacle.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le titre est requis"})
		return
	}

	if err := h.spectacleService.Create(c.Request.Context(), &spectacle, mutationMeta(c)); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Un spectacle avec ce slug existe déjà"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"spectacle": spectacle.ToResponse()})
}

// @Summary Update Spectacle
// @Tags Spectacles
// @Accept json
// @Produce json
// @Param spectacle_id path int true "Spectacle ID"
// @Param request body models.Spectacle true "Spectacle Data"
// @Success 200 {object} models.SpectacleResponse
// @Security BearerAuth
// @Router /spectacles/{spectacle_id} [put]
func (h *SpectacleHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("spectacle_id"), 10, 32)
	var spectacle models.Spectacle
	if err := c.ShouldBindJSON(&spectacle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spectacle.ID = uint(id)

	if err := h.spectacleService.Update(c.Request.Context(), &spectacle, mutationMeta(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Spectacle introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"spectacle": spectacle.ToResponse()})
}

// @Summary Delete Spectacle
// @Tags Spectacles
// @Produce json
// @Param spectacle_id path int true "Spectacle ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /spectacles/{spectacle_id} [delete]
func (h *SpectacleHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("spectacle_id"), 10, 32)
	if err := h.spectacleService.Delete(c.Request.Context(), uint(id), mutationMeta(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Spectacle introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spectacle supprimé"})
}

func (h *SpectacleHandler) respondTransition(c *gin.Context, spectacle *models.Spectacle, err error) {
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Spectacle introuvable"})
		case errors.Is(err, services.ErrInvalidState):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"spectacle": spectacle.ToResponse()})
}

// @Summary Publish Spectacle
// @Tags Spectacles
// @Produce json
// @Param spectacle_id path int true "Spectacle ID"
// @Success 200 {object} models.SpectacleResponse
// @Security BearerAuth
// @Router /spectacles/{spectacle_id}/publish [post]
func (h *SpectacleHandler) Publish(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("spectacle_id"), 10, 32)
	spectacle, err := h.spectacleService.Publish(c.Request.Context(), uint(id), mutationMeta(c))
	h.respondTransition(c, spectacle, err)
}

// @Summary Unpublish Spectacle
// @Tags Spectacles
// @Produce json
// @Param spectacle_id path int true "Spectacle ID"
// @Success 200 {object} models.SpectacleResponse
// @Security BearerAuth
// @Router /spectacles/{spectacle_id}/unpublish [post]
func (h *SpectacleHandler) Unpublish(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("spectacle_id"), 10, 32)
	spectacle, err := h.spectacleService.Unpublish(c.Request.Context(), uint(id), mutationMeta(c))
	h.respondTransition(c, spectacle, err)
}

// @Summary Archive Spectacle
// @Tags Spectacles
// @Produce json
// @Param spectacle_id path int true "Spectacle ID"
// @Success 200 {object} models.SpectacleResponse
// @Security BearerAuth
// @Router /spectacles/{spectacle_id}/archive [post]
func (h *SpectacleHandler) Archive(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("spectacle_id"), 10, 32)
	spectacle, err := h.spectacleService.Archive(c.Request.Context(), uint(id), mutationMeta(c))
	h.respondTransition(c, spectacle, err)
}

// @Summary Restore Spectacle
// @Tags Spectacles
// @Produce json
// @Param spectacle_id path int true "Spectacle ID"
// @Success 200 {object} models.SpectacleResponse
// @Security BearerAuth
// @Router /spectacles/{spectacle_id}/restore [post]
func (h *SpectacleHandler) Restore(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("spectacle_id"), 10, 32)
	spectacle, err := h.spectacleService.Restore(c.Request.Context(), uint(id), mutationMeta(c))
	h.respondTransition(c, spectacle, err)
}

// @Summary Press Kit PDF
// @Description Download the dossier de presse for a spectacle
// @Tags Spectacles
// @Produce application/pdf
// @Param spectacle_id path int true "Spectacle ID"
// @Success 200 {string} string "PDF file"
// @Security BearerAuth
// @Router /spectacles/{spectacle_id}/press_kit_pdf [get]
func (h *SpectacleHandler) PressKitPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("spectacle_id"), 10, 32)

	buf, err := h.reportService.GeneratePressKitPDF(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=dossier_presse_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
