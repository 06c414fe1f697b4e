package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/algoviz-io/algoviz-backend/internal/users/domain"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "user_role"
)

// UserID extracts the authenticated user's id from the Gin context.
// This is set by Middleware.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// UserRole extracts the authenticated user's role from the Gin context.
func UserRole(c *gin.Context) domain.Role {
	return domain.Role(c.GetString(CtxRole))
}
