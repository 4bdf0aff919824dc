package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/supplier-directory/internal/auth"
	"github.com/BruksfildServices01/supplier-directory/internal/cache"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/logger"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextTokenID   = "tokenID"
	ContextTokenExp  = "tokenExp"
	ContextRequestID = "requestID"
)

type Authenticator struct {
	secret   string
	denylist cache.Denylist
}

func NewAuthenticator(secret string, denylist cache.Denylist) *Authenticator {
	return &Authenticator{secret: secret, denylist: denylist}
}

// Required exige Bearer token válido e não revogado.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			httperr.Unauthorized(c, "missing_authorization_header", "Faça login para continuar.")
			return
		}

		if !a.authenticate(c, raw) {
			return
		}
		c.Next()
	}
}

// Optional aceita visitante anônimo; token presente mas inválido é rejeitado.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.Next()
			return
		}

		if !a.authenticate(c, raw) {
			return
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, raw string) bool {
	claims, err := auth.Parse(a.secret, raw)
	if err != nil {
		httperr.Unauthorized(c, "invalid_token", "Sessão inválida ou expirada.")
		return false
	}

	revoked, err := a.denylist.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		// sem Redis a revogação não é conferida; o token ainda expira
		logger.Log.Warn("denylist lookup failed", zap.Error(err))
	}
	if revoked {
		httperr.Unauthorized(c, "token_revoked", "Sessão encerrada. Faça login novamente.")
		return false
	}

	c.Set(ContextUserID, claims.UserID())
	c.Set(ContextUserRole, claims.Role)
	c.Set(ContextTokenID, claims.ID)
	c.Set(ContextTokenExp, claims.ExpiresAt.Time)
	return true
}

func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ===============================
// Context helpers
// ===============================

// UserID devolve zero para visitante anônimo.
func UserID(c *gin.Context) uint {
	v, _ := c.Get(ContextUserID)
	id, _ := v.(uint)
	return id
}

func UserRole(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

func TokenID(c *gin.Context) (string, time.Time) {
	exp, _ := c.Get(ContextTokenExp)
	t, _ := exp.(time.Time)
	return c.GetString(ContextTokenID), t
}
