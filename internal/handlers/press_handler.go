package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/internal/services"
	"github.com/gin-gonic/gin"
)

type PressHandler struct {
	pressService *services.PressService
}

func NewPressHandler(pressService *services.PressService) *PressHandler {
	return &PressHandler{pressService: pressService}
}

// @Summary List Press Articles
// @Tags Press
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /press [get]
func (h *PressHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")

	articles, total, err := h.pressService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"press_articles": articles, "pagination": gin.H{"total": total}})
}

// @Summary Get Press Article
// @Tags Press
// @Produce json
// @Param article_id path int true "Article ID"
// @Success 200 {object} models.PressArticle
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /press/{article_id} [get]
func (h *PressHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("article_id"), 10, 32)
	article, err := h.pressService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"press_article": article})
}

// @Summary Create Press Article
// @Tags Press
// @Accept json
// @Produce json
// @Param request body models.PressArticle true "Article Data"
// @Success 201 {object} models.PressArticle
// @Security BearerAuth
// @Router /press [post]
func (h *PressHandler) Create(c *gin.Context) {
	var article models.PressArticle
	if err := c.ShouldBindJSON(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if article.Title == "" || article.Outlet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le titre et le média sont requis"})
		return
	}

	if err := h.pressService.Create(c.Request.Context(), &article, mutationMeta(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"press_article": article})
}

// @Summary Update Press Article
// @Tags Press
// @Accept json
// @Produce json
// @Param article_id path int true "Article ID"
// @Param request body models.PressArticle true "Article Data"
// @Success 200 {object} models.PressArticle
// @Security BearerAuth
// @Router /press/{article_id} [put]
func (h *PressHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("article_id"), 10, 32)
	var article models.PressArticle
	if err := c.ShouldBindJSON(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	article.ID = uint(id)

	if err := h.pressService.Update(c.Request.Context(), &article, mutationMeta(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"press_article": article})
}

// @Summary Delete Press Article
// @Tags Press
// @Produce json
// @Param article_id path int true "Article ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /press/{article_id} [delete]
func (h *PressHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("article_id"), 10, 32)
	if err := h.pressService.Delete(c.Request.Context(), uint(id), mutationMeta(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article supprimé"})
}
