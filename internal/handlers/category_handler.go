package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
	"github.com/BruksfildServices01/supplier-directory/internal/usecase/category"
)

type CategoryHandler struct {
	manage *category.Manage
}

func NewCategoryHandler(manage *category.Manage) *CategoryHandler {
	return &CategoryHandler{manage: manage}
}

type CategoryRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	cat, err := h.manage.Create(c.Request.Context(), category.Input{
		ActorID: middleware.UserID(c),
		Name:    req.Name,
		Image:   req.Image,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_category", "Erro ao criar categoria.")
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	cat, err := h.manage.Update(c.Request.Context(), id, category.Input{
		ActorID: middleware.UserID(c),
		Name:    req.Name,
		Image:   req.Image,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_category", "Erro ao atualizar categoria.")
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.manage.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		httperr.FromError(c, err, "failed_to_delete_category", "Erro ao excluir categoria.")
		return
	}

	c.Status(http.StatusNoContent)
}
