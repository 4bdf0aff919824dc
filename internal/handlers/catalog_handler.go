package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/catalog"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/rating"
	"github.com/BruksfildServices01/supplier-directory/internal/dto"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/httpresp"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
	"github.com/BruksfildServices01/supplier-directory/internal/usecase/catalog"
)

// ======================================================
// HANDLER
// ======================================================

// CatalogHandler serve as leituras públicas; toda listagem de fornecedores
// passa pelo agregador.
type CatalogHandler struct {
	agg      *catalog.Aggregator
	accounts account.Repository
}

func NewCatalogHandler(agg *catalog.Aggregator, accounts account.Repository) *CatalogHandler {
	return &CatalogHandler{agg: agg, accounts: accounts}
}

func (h *CatalogHandler) Plans(c *gin.Context) {
	httpresp.List(c, plan.All())
}

func (h *CatalogHandler) ComplaintTags(c *gin.Context) {
	httpresp.List(c, rating.Tags())
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	cats, err := h.agg.Categories(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_categories", "Erro ao listar categorias.")
		return
	}
	httpresp.List(c, cats)
}

func (h *CatalogHandler) Highlights(c *gin.Context) {
	hs, err := h.agg.Highlights(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_highlights", "Erro ao listar destaques.")
		return
	}
	httpresp.List(c, hs)
}

// ======================================================
// SUPPLIERS
// ======================================================

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	filter := domain.SupplierFilter{
		CategoryID: queryUint(c, "category_id"),
		Query:      strings.TrimSpace(c.Query("query")),
		City:       strings.TrimSpace(c.Query("city")),
	}

	list, err := h.agg.ListAccessibleSuppliers(ctx, userID, filter)
	if err != nil {
		httperr.Internal(c, "failed_to_list_suppliers", "Erro ao listar fornecedores.")
		return
	}

	httpresp.List(c, dto.SupplierCards(list, h.favorites(ctx, userID)))
}

func (h *CatalogHandler) GetSupplier(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	s, err := h.agg.GetSupplier(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_supplier", "Erro ao carregar fornecedor.")
		return
	}

	if s.Ratings == nil {
		s.Ratings = []models.Rating{}
	}
	httpresp.OK(c, s)
}

func (h *CatalogHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	d, err := h.agg.LoadDashboard(ctx, userID)
	if err != nil {
		httperr.Internal(c, "failed_to_load_dashboard", "Erro ao carregar o painel.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories":          d.Categories,
		"highlights":          d.Highlights,
		"suppliers":           dto.SupplierCards(d.Suppliers, h.favorites(ctx, userID)),
		"plan":                d.Plan,
		"selected_categories": d.SelectedCategories,
	})
}

// favorites é best effort: sem perfil, nenhum card vem marcado.
func (h *CatalogHandler) favorites(ctx context.Context, userID uint) []uint {
	if userID == 0 {
		return nil
	}
	u, err := h.accounts.GetUser(ctx, userID)
	if err != nil {
		return nil
	}
	return u.Favorites
}
