package auth

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/web"
)

// Context keys set by Require.
const (
	UsernameKey = "username"
	RoleKey     = "role"
)

// Require checks the bearer token and, if roles are given, that the caller holds one of them.
func Require(tokens *Tokens, log *logger.Logger, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			web.WriteError(c, log, "unauthorized", fmt.Errorf("%w: missing bearer token", models.ErrUnauthorized))
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			web.WriteError(c, log, "unauthorized", err)
			return
		}

		if len(roles) > 0 && !hasRole(claims.Role, roles) {
			web.WriteError(c, log, "forbidden", fmt.Errorf("%w: role %s not allowed", models.ErrForbidden, claims.Role))
			return
		}

		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, string(claims.Role))
		c.Next()
	}
}

// RequireStaff admits any authenticated staff member or admin.
func RequireStaff(tokens *Tokens, log *logger.Logger) gin.HandlerFunc {
	return Require(tokens, log, models.RoleStaff, models.RoleAdmin)
}

func hasRole(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
