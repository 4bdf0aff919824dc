package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
	"github.com/BruksfildServices01/supplier-directory/internal/usecase/supplier"
)

type SupplierHandler struct {
	manage *supplier.Manage
	rate   *supplier.Rate
}

func NewSupplierHandler(manage *supplier.Manage, rate *supplier.Rate) *SupplierHandler {
	return &SupplierHandler{manage: manage, rate: rate}
}

// --------- Requests ---------

type SupplierRequest struct {
	Name            string `json:"name" binding:"required"`
	Phone           string `json:"phone"`
	City            string `json:"city"`
	Image           string `json:"image"`
	CategoryIDs     []uint `json:"category_ids"`
	IsFreeSupplier  bool   `json:"is_free_supplier"`
	IsGeniusStudent bool   `json:"is_genius_student"`
}

func (r SupplierRequest) input(actorID uint) supplier.Input {
	return supplier.Input{
		ActorID:         actorID,
		Name:            r.Name,
		Phone:           r.Phone,
		City:            r.City,
		Image:           r.Image,
		CategoryIDs:     r.CategoryIDs,
		IsFreeSupplier:  r.IsFreeSupplier,
		IsGeniusStudent: r.IsGeniusStudent,
	}
}

type RatingRequest struct {
	Rating        int      `json:"rating"`
	Comment       string   `json:"comment"`
	ComplaintTags []string `json:"complaint_tags"`
}

// --------- Admin ---------

func (h *SupplierHandler) Create(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	s, err := h.manage.Create(c.Request.Context(), req.input(middleware.UserID(c)))
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_supplier", "Erro ao criar fornecedor.")
		return
	}

	c.JSON(http.StatusCreated, s)
}

// Update substitui o fornecedor inteiro (PATCH com corpo completo, como o
// formulário do painel envia).
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	s, err := h.manage.Update(c.Request.Context(), id, req.input(middleware.UserID(c)))
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_supplier", "Erro ao atualizar fornecedor.")
		return
	}

	c.JSON(http.StatusOK, s)
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.manage.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		httperr.FromError(c, err, "failed_to_delete_supplier", "Erro ao excluir fornecedor.")
		return
	}

	c.Status(http.StatusNoContent)
}

// --------- Ratings ---------

func (h *SupplierHandler) Rate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	s, err := h.rate.Execute(c.Request.Context(), supplier.RateInput{
		UserID:        middleware.UserID(c),
		SupplierID:    id,
		Score:         req.Rating,
		Comment:       req.Comment,
		ComplaintTags: req.ComplaintTags,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_rate_supplier", "Erro ao avaliar fornecedor.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"supplier_id":    s.ID,
		"average_rating": s.AverageRating,
		"ratings":        s.Ratings,
	})
}

func (h *SupplierHandler) RemoveRating(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	s, err := h.rate.Remove(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_remove_rating", "Erro ao remover avaliação.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"supplier_id":    s.ID,
		"average_rating": s.AverageRating,
		"ratings":        s.Ratings,
	})
}
