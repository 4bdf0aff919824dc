package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/auth"
	"github.com/BruksfildServices01/supplier-directory/internal/cache"
	"github.com/BruksfildServices01/supplier-directory/internal/config"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/access"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	"github.com/BruksfildServices01/supplier-directory/internal/dto"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/logger"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
	"github.com/BruksfildServices01/supplier-directory/internal/validators"
)

type AuthHandler struct {
	db       *gorm.DB
	config   *config.Config
	denylist cache.Denylist
	audit    audit.Recorder

	checkEmailDomain validators.EmailDomainChecker
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	denylist cache.Denylist,
	audit audit.Recorder,
	checkEmailDomain validators.EmailDomainChecker,
) *AuthHandler {
	if checkEmailDomain == nil {
		checkEmailDomain = validators.IsEmailDomainValid
	}
	return &AuthHandler{
		db:               db,
		config:           cfg,
		denylist:         denylist,
		audit:            audit,
		checkEmailDomain: checkEmailDomain,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Coupon   string `json:"coupon"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User      dto.UserDTO `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !h.checkEmailDomain(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	user := models.User{
		Name:  strings.TrimSpace(req.Name),
		Email: email,
		Phone: strings.TrimSpace(req.Phone),
		Role:  access.RoleUser,
		Plan:  string(plan.Free),
	}

	// cupom do programa genius: entra como pendente até um admin aprovar
	if coupon := strings.ToUpper(strings.TrimSpace(req.Coupon)); coupon != "" {
		if coupon != access.GeniusCoupon {
			httperr.Business(c, "invalid_coupon")
			return
		}
		status := access.GeniusPending
		user.GeniusCoupon = &coupon
		user.GeniusStatus = &status
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao criar usuário.")
		return
	}
	user.PasswordHash = string(hashed)

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Business(c, "email_already_exists")
			return
		}
		httperr.Internal(c, "failed_to_create_user", "Erro ao criar usuário.")
		return
	}

	tok, err := auth.Issue(h.config.JWTSecret, &user, h.config.JWTTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"genius_coupon": user.GeniusCoupon != nil},
	})

	c.JSON(http.StatusCreated, authResponse{
		User:      dto.User(&user),
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", validators.NormalizeEmail(req.Email)).
		First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao entrar.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	tok, err := auth.Issue(h.config.JWTSecret, &user, h.config.JWTTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	c.JSON(http.StatusOK, authResponse{
		User:      dto.User(&user),
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
	})
}

// Logout revoga o jti até o token expirar.
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := middleware.TokenID(c)
	if jti != "" {
		if err := h.denylist.Revoke(c.Request.Context(), jti, time.Until(exp)); err != nil {
			logger.Log.Warn("token revoke failed", zap.Error(err))
			httperr.Internal(c, "logout_failed", "Não foi possível encerrar a sessão.")
			return
		}
	}

	c.Status(http.StatusNoContent)
}
