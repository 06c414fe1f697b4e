package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoviz-io/algoviz-backend/internal/apperr"
	"github.com/algoviz-io/algoviz-backend/internal/users/domain"
)

type staticLoader struct {
	users map[string]*domain.User
}

func (l *staticLoader) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := l.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func guardedRouter(tm *TokenManager, loader UserLoader, roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperr.Middleware(true))

	handlers := []gin.HandlerFunc{Middleware(tm, loader)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": UserID(c),
			"role":   string(UserRole(c)),
		})
	})
	r.GET("/guarded", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_SetsIdentity(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	loader := &staticLoader{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Role: domain.RoleUser},
	}}
	r := guardedRouter(tm, loader)

	token, err := tm.Sign("user-1")
	require.NoError(t, err)

	w := get(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"user-1"`)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestMiddleware_MissingAndMalformedHeader(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	r := guardedRouter(tm, &staticLoader{})

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_UnknownSubject(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	r := guardedRouter(tm, &staticLoader{})

	token, err := tm.Sign("ghost")
	require.NoError(t, err)

	w := get(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no longer exists")
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	loader := &staticLoader{users: map[string]*domain.User{
		"plain": {ID: "plain", Role: domain.RoleUser},
		"root":  {ID: "root", Role: domain.RoleAdmin},
	}}
	r := guardedRouter(tm, loader, domain.RoleAdmin)

	plainToken, err := tm.Sign("plain")
	require.NoError(t, err)
	rootToken, err := tm.Sign("root")
	require.NoError(t, err)

	w := get(r, plainToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(r, rootToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
