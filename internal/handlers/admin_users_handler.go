package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/access"
	"github.com/BruksfildServices01/supplier-directory/internal/dto"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/httpresp"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

type AdminUsersHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewAdminUsersHandler(db *gorm.DB, audit audit.Recorder) *AdminUsersHandler {
	return &AdminUsersHandler{db: db, audit: audit}
}

type SetGeniusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// List aceita ?search= (nome ou e-mail), ?role=, ?genius_status= e paginação.
func (h *AdminUsersHandler) List(c *gin.Context) {
	page, limit, offset := pagination(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.User{})

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if status := c.Query("genius_status"); status != "" {
		q = q.Where("genius_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Erro ao listar usuários.")
		return
	}

	var users []models.User
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Erro ao listar usuários.")
		return
	}

	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, dto.User(&users[i]))
	}
	httpresp.Page(c, out, page, limit, total)
}

// SetGenius aprova, bloqueia ou devolve para pendente a participação do
// usuário no programa de alunos.
func (h *AdminUsersHandler) SetGenius(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req SetGeniusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !access.IsValidGeniusStatus(status) {
		httperr.Business(c, "invalid_genius_status")
		return
	}

	user, ok := h.loadUser(c, id)
	if !ok {
		return
	}

	previous := ""
	if user.GeniusStatus != nil {
		previous = *user.GeniusStatus
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("genius_status", status).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Erro ao atualizar usuário.")
		return
	}
	user.GeniusStatus = &status

	actorID := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "genius_status_changed",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"from": previous, "to": status},
	})

	httpresp.OK(c, dto.User(user))
}

// SetRole é exclusivo do master. O token do usuário alterado só reflete o
// novo perfil no próximo login.
func (h *AdminUsersHandler) SetRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !access.IsValidRole(role) {
		httperr.Business(c, "invalid_role")
		return
	}

	actorID := middleware.UserID(c)
	if actorID == id {
		httperr.Business(c, "cannot_change_own_role")
		return
	}

	user, ok := h.loadUser(c, id)
	if !ok {
		return
	}
	previous := user.Role

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("role", role).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Erro ao atualizar usuário.")
		return
	}
	user.Role = role

	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "role_changed",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"from": previous, "to": role},
	})

	httpresp.OK(c, dto.User(user))
}

func (h *AdminUsersHandler) loadUser(c *gin.Context, id uint) (*models.User, bool) {
	var user models.User
	err := h.db.WithContext(c.Request.Context()).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Business(c, "user_not_found")
		return nil, false
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_user", "Erro ao carregar usuário.")
		return nil, false
	}
	return &user, true
}
