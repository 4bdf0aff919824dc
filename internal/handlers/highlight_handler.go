package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

const (
	minHighlightDelay = 1
	maxHighlightDelay = 20
)

type HighlightHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewHighlightHandler(db *gorm.DB, audit audit.Recorder) *HighlightHandler {
	return &HighlightHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateHighlightRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	MediaURL     string `json:"media_url" binding:"required"`
	MediaType    string `json:"media_type"`
	LinkURL      string `json:"link_url"`
	DelaySeconds int    `json:"delay_seconds"`
}

type UpdateHighlightRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	MediaURL     *string `json:"media_url,omitempty"`
	MediaType    *string `json:"media_type,omitempty"`
	LinkURL      *string `json:"link_url,omitempty"`
	DelaySeconds *int    `json:"delay_seconds,omitempty"`
}

// --------- Validation ---------

func validateHighlight(h *models.Highlight) string {
	if strings.TrimSpace(h.Title) == "" {
		return "invalid_name"
	}
	if h.MediaType != "image" && h.MediaType != "video" {
		return "invalid_media_type"
	}
	if h.DelaySeconds < minHighlightDelay || h.DelaySeconds > maxHighlightDelay {
		return "invalid_delay"
	}
	return ""
}

// --------- Handlers ---------

func (h *HighlightHandler) Create(c *gin.Context) {
	var req CreateHighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	hl := models.Highlight{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		MediaURL:     strings.TrimSpace(req.MediaURL),
		MediaType:    strings.ToLower(strings.TrimSpace(req.MediaType)),
		LinkURL:      strings.TrimSpace(req.LinkURL),
		DelaySeconds: req.DelaySeconds,
	}
	if hl.MediaType == "" {
		hl.MediaType = "image"
	}
	if hl.DelaySeconds == 0 {
		hl.DelaySeconds = 5
	}

	if code := validateHighlight(&hl); code != "" {
		httperr.Business(c, code)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&hl).Error; err != nil {
		httperr.Internal(c, "failed_to_create_highlight", "Erro ao criar destaque.")
		return
	}

	actorID := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "highlight_created",
		Entity:   "highlight",
		EntityID: &hl.ID,
	})

	c.JSON(http.StatusCreated, hl)
}

func (h *HighlightHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var hl models.Highlight
	if err := h.db.WithContext(c.Request.Context()).First(&hl, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.Business(c, "highlight_not_found")
			return
		}
		httperr.Internal(c, "failed_to_load_highlight", "Erro ao carregar destaque.")
		return
	}

	var req UpdateHighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if req.Title != nil {
		hl.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		hl.Description = strings.TrimSpace(*req.Description)
	}
	if req.MediaURL != nil {
		hl.MediaURL = strings.TrimSpace(*req.MediaURL)
	}
	if req.MediaType != nil {
		hl.MediaType = strings.ToLower(strings.TrimSpace(*req.MediaType))
	}
	if req.LinkURL != nil {
		hl.LinkURL = strings.TrimSpace(*req.LinkURL)
	}
	if req.DelaySeconds != nil {
		hl.DelaySeconds = *req.DelaySeconds
	}

	if code := validateHighlight(&hl); code != "" {
		httperr.Business(c, code)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&hl).Error; err != nil {
		httperr.Internal(c, "failed_to_update_highlight", "Erro ao atualizar destaque.")
		return
	}

	actorID := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "highlight_updated",
		Entity:   "highlight",
		EntityID: &hl.ID,
	})

	c.JSON(http.StatusOK, hl)
}

func (h *HighlightHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Highlight{}, id)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_highlight", "Erro ao excluir destaque.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.Business(c, "highlight_not_found")
		return
	}

	actorID := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "highlight_deleted",
		Entity:   "highlight",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}
