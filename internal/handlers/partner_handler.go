package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/services"
	"github.com/gin-gonic/gin"
)

// PartnerHandler serves partners and team members
type PartnerHandler struct {
	partnerService *services.PartnerService
}

func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// @Summary List Partners
// @Tags Partners
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /partners [get]
func (h *PartnerHandler) Index(c *gin.Context) {
	partners, err := h.partnerService.ListPartners(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"partners": partners})
}

// @Summary Create Partner
// @Tags Partners
// @Accept json
// @Produce json
// @Param request body models.Partner true "Partner Data"
// @Success 201 {object} models.Partner
// @Security BearerAuth
// @Router /partners [post]
func (h *PartnerHandler) Create(c *gin.Context) {
	var partner models.Partner
	if err := c.ShouldBindJSON(&partner); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if partner.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le nom est requis"})
		return
	}

	if err := h.partnerService.CreatePartner(c.Request.Context(), &partner, mutationMeta(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"partner": partner})
}

// @Summary Update Partner
// @Tags Partners
// @Accept json
// @Produce json
// @Param partner_id path int true "Partner ID"
// @Param request body models.Partner true "Partner Data"
// @Success 200 {object} models.Partner
// @Security BearerAuth
// @Router /partners/{partner_id} [put]
func (h *PartnerHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("partner_id"), 10, 32)
	var partner models.Partner
	if err := c.ShouldBindJSON(&partner); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	partner.ID = uint(id)

	if err := h.partnerService.UpdatePartner(c.Request.Context(), &partner, mutationMeta(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Partenaire introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

// @Summary Delete Partner
// @Tags Partners
// @Produce json
// @Param partner_id path int true "Partner ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /partners/{partner_id} [delete]
func (h *PartnerHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("partner_id"), 10, 32)
	if err := h.partnerService.DeletePartner(c.Request.Context(), uint(id), mutationMeta(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Partenaire introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Partenaire supprimé"})
}

// @Summary List Team Members
// @Tags Team
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /team [get]
func (h *PartnerHandler) TeamIndex(c *gin.Context) {
	members, err := h.partnerService.ListTeam(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"team_members": members})
}

// @Summary Create Team Member
// @Tags Team
// @Accept json
// @Produce json
// @Param request body models.TeamMember true "Team Member Data"
// @Success 201 {object} models.TeamMember
// @Security BearerAuth
// @Router /team [post]
func (h *PartnerHandler) TeamCreate(c *gin.Context) {
	var member models.TeamMember
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if member.FullName == "" || member.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le nom et le rôle sont requis"})
		return
	}

	if err := h.partnerService.CreateTeamMember(c.Request.Context(), &member, mutationMeta(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"team_member": member})
}

// @Summary Update Team Member
// @Tags Team
// @Accept json
// @Produce json
// @Param member_id path int true "Member ID"
// @Param request body models.TeamMember true "Team Member Data"
// @Success 200 {object} models.TeamMember
// @Security BearerAuth
// @Router /team/{member_id} [put]
func (h *PartnerHandler) TeamUpdate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("member_id"), 10, 32)
	var member models.TeamMember
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	member.ID = uint(id)

	if err := h.partnerService.UpdateTeamMember(c.Request.Context(), &member, mutationMeta(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Membre introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"team_member": member})
}

// @Summary Delete Team Member
// @Tags Team
// @Produce json
// @Param member_id path int true "Member ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /team/{member_id} [delete]
func (h *PartnerHandler) TeamDelete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("member_id"), 10, 32)
	if err := h.partnerService.DeleteTeamMember(c.Request.Context(), uint(id), mutationMeta(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Membre introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Membre supprimé"})
}
