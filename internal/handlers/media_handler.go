package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/internal/services"
	"github.com/comedialab/comedia-api/internal/storage"
	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaService *services.MediaService
	store        *storage.LocalStorage
}

func NewMediaHandler(mediaService *services.MediaService, store *storage.LocalStorage) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, store: store}
}

type bulkMoveRequest struct {
	AssetIDs []string `json:"asset_ids" binding:"required"`
	FolderID *uint    `json:"folder_id"`
}

type bulkTagRequest struct {
	AssetIDs []string `json:"asset_ids" binding:"required"`
	Tags     []string `json:"tags" binding:"required"`
}

type bulkDeleteRequest struct {
	AssetIDs []string `json:"asset_ids" binding:"required"`
}

// @Summary List Media Assets
// @Tags Media
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "File name search"
// @Param folder_id query string false "Folder ID, or 'root' for unfiled assets"
// @Param tag query string false "Tag filter"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /media [get]
func (h *MediaHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["folder_id"] = c.Query("folder_id")
	query.Filters["tag"] = c.Query("tag")

	assets, total, err := h.mediaService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"media_assets": assets, "pagination": gin.H{"total": total}})
}

// @Summary Get Media Asset
// @Tags Media
// @Produce json
// @Param asset_id path string true "Asset ID"
// @Success 200 {object} models.MediaAsset
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /media/{asset_id} [get]
func (h *MediaHandler) Show(c *gin.Context) {
	asset, err := h.mediaService.FindByID(c.Request.Context(), c.Param("asset_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Média introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"media_asset": asset})
}

// @Summary Upload Media
// @Description Upload a file into the media library
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param folder_id formData int false "Target folder"
// @Success 201 {object} models.MediaAsset
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun fichier fourni"})
		return
	}
	defer file.Close()

	var folderID *uint
	if raw := c.PostForm("folder_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de dossier invalide"})
			return
		}
		value := uint(id)
		folderID = &value
	}

	asset, err := h.mediaService.Upload(c.Request.Context(), file, header, folderID, mutationMeta(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"media_asset": asset})
}

// @Summary Bulk Move Media
// @Description Move a set of assets into a folder, or to the library root
// @Tags Media
// @Accept json
// @Produce json
// @Param request body bulkMoveRequest true "Asset IDs and target folder"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /media/bulk_move [post]
func (h *MediaHandler) BulkMove(c *gin.Context) {
	var req bulkMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.mediaService.BulkMove(c.Request.Context(), req.AssetIDs, req.FolderID, mutationMeta(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Médias déplacés"})
}

// @Summary Bulk Tag Media
// @Tags Media
// @Accept json
// @Produce json
// @Param request body bulkTagRequest true "Asset IDs and tags to add"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /media/bulk_tag [post]
func (h *MediaHandler) BulkTag(c *gin.Context) {
	var req bulkTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.mediaService.BulkTag(c.Request.Context(), req.AssetIDs, req.Tags, mutationMeta(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tags ajoutés"})
}

// @Summary Bulk Delete Media
// @Description Delete a set of assets and their stored files
// @Tags Media
// @Accept json
// @Produce json
// @Param request body bulkDeleteRequest true "Asset IDs"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /media/bulk_delete [post]
func (h *MediaHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.mediaService.BulkDelete(c.Request.Context(), req.AssetIDs, mutationMeta(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Médias supprimés"})
}

// @Summary List Media Folders
// @Tags Media
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /media/folders [get]
func (h *MediaHandler) Folders(c *gin.Context) {
	folders, err := h.mediaService.ListFolders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// @Summary Create Media Folder
// @Tags Media
// @Accept json
// @Produce json
// @Param request body models.MediaFolder true "Folder Data"
// @Success 201 {object} models.MediaFolder
// @Security BearerAuth
// @Router /media/folders [post]
func (h *MediaHandler) CreateFolder(c *gin.Context) {
	var folder models.MediaFolder
	if err := c.ShouldBindJSON(&folder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if folder.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le nom est requis"})
		return
	}

	if err := h.mediaService.CreateFolder(c.Request.Context(), &folder, mutationMeta(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"folder": folder})
}

// @Summary Delete Media Folder
// @Tags Media
// @Produce json
// @Param folder_id path int true "Folder ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /media/folders/{folder_id} [delete]
func (h *MediaHandler) DeleteFolder(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("folder_id"), 10, 32)
	if err := h.mediaService.DeleteFolder(c.Request.Context(), uint(id), mutationMeta(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dossier introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dossier supprimé"})
}
