package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/catalog"
	"github.com/BruksfildServices01/supplier-directory/internal/dto"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/httpresp"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
	"github.com/BruksfildServices01/supplier-directory/internal/usecase/catalog"
)

type MeHandler struct {
	accounts account.Repository
	agg      *catalog.Aggregator
}

func NewMeHandler(accounts account.Repository, agg *catalog.Aggregator) *MeHandler {
	return &MeHandler{accounts: accounts, agg: agg}
}

// --------- Requests ---------

type UpdateMeRequest struct {
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     *string `json:"new_password,omitempty" binding:"omitempty,min=6"`
}

// --------- Handlers ---------

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	httpresp.OK(c, dto.User(user))
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.Business(c, "invalid_name")
			return
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.NewPassword != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			httperr.Unauthorized(c, "invalid_credentials", "Senha atual incorreta.")
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Erro ao atualizar senha.")
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := h.accounts.UpdateProfile(c.Request.Context(), user); err != nil {
		httperr.Internal(c, "failed_to_update_user", "Erro ao atualizar perfil.")
		return
	}

	httpresp.OK(c, dto.User(user))
}

// ======================================================
// FAVORITES
// ======================================================

// ListFavorites devolve apenas os favoritos que o usuário ainda pode ver.
func (h *MeHandler) ListFavorites(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	visible, err := h.agg.ListAccessibleSuppliers(c.Request.Context(), user.ID, domain.SupplierFilter{})
	if err != nil {
		httperr.Internal(c, "failed_to_list_favorites", "Erro ao listar favoritos.")
		return
	}

	favs := make([]models.Supplier, 0, len(user.Favorites))
	for _, s := range visible {
		if user.HasFavorite(s.ID) {
			favs = append(favs, s)
		}
	}

	httpresp.List(c, dto.SupplierCards(favs, user.Favorites))
}

func (h *MeHandler) AddFavorite(c *gin.Context) {
	supplierID, ok := paramID(c, "supplierID")
	if !ok {
		return
	}
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	if _, err := h.agg.GetSupplier(c.Request.Context(), user.ID, supplierID); err != nil {
		httperr.FromError(c, err, "failed_to_add_favorite", "Erro ao favoritar.")
		return
	}

	if !user.HasFavorite(supplierID) {
		user.Favorites = append(user.Favorites, supplierID)
		if err := h.accounts.SetFavorites(c.Request.Context(), user.ID, user.Favorites); err != nil {
			httperr.Internal(c, "failed_to_add_favorite", "Erro ao favoritar.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"favorites": []uint(user.Favorites)})
}

func (h *MeHandler) RemoveFavorite(c *gin.Context) {
	supplierID, ok := paramID(c, "supplierID")
	if !ok {
		return
	}
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	next := make([]uint, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		if id != supplierID {
			next = append(next, id)
		}
	}

	if len(next) != len(user.Favorites) {
		user.Favorites = next
		if err := h.accounts.SetFavorites(c.Request.Context(), user.ID, next); err != nil {
			httperr.Internal(c, "failed_to_remove_favorite", "Erro ao remover favorito.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"favorites": next})
}

func (h *MeHandler) loadUser(c *gin.Context) (*models.User, bool) {
	user, err := h.accounts.GetUser(c.Request.Context(), middleware.UserID(c))
	if err == gorm.ErrRecordNotFound {
		httperr.Business(c, "user_not_found")
		return nil, false
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_user", "Erro ao carregar perfil.")
		return nil, false
	}
	return user, true
}
