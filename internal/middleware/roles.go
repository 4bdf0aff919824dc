package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
)

// RequireRole roda depois de Required.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := allowed[UserRole(c)]; !ok {
			httperr.Forbidden(c, "forbidden", "Você não tem permissão para esta ação.")
			return
		}
		c.Next()
	}
}
