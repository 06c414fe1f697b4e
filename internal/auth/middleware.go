package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/algoviz-io/algoviz-backend/internal/apperr"
	"github.com/algoviz-io/algoviz-backend/internal/users/domain"
)

// UserLoader resolves an authenticated user id to an active account.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Middleware validates the bearer token and checks the account still
// exists. On success the user id and role are stored on the context.
func Middleware(tokens *TokenManager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			apperr.Abort(c, apperr.Authentication("You are not logged in. Please log in to get access."))
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				apperr.Abort(c, apperr.Authentication("Your token has expired. Please log in again."))
				return
			}
			apperr.Abort(c, apperr.Authentication("Invalid token. Please log in again."))
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				apperr.Abort(c, apperr.Authentication("The user belonging to this token no longer exists."))
				return
			}
			apperr.Abort(c, apperr.Internal("failed to load user", err))
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxRole, string(user.Role))
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := UserRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		apperr.Abort(c, apperr.Authorization("You do not have permission to perform this action"))
	}
}

// extractToken extracts the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
