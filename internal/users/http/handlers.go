// Package http exposes the user account endpoints.
package http

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	httpapi "github.com/algoviz-io/algoviz-backend/internal/api/http"
	"github.com/algoviz-io/algoviz-backend/internal/apperr"
	"github.com/algoviz-io/algoviz-backend/internal/auth"
	"github.com/algoviz-io/algoviz-backend/internal/users/domain"
	"github.com/algoviz-io/algoviz-backend/internal/users/service"
)

var (
	lowerRe = regexp.MustCompile(`[a-z]`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	digitRe = regexp.MustCompile(`\d`)
)

type Handler struct {
	svc *service.Service
}

// Register mounts the public routes on public and the token-guarded routes
// on protected.
func Register(public, protected *gin.RouterGroup, svc *service.Service) {
	h := &Handler{svc: svc}

	public.POST("/register", h.register)
	public.POST("/login", h.login)

	protected.GET("/me", h.me)
	protected.PATCH("/:id", h.update)
	protected.DELETE("/:id", h.delete)
}

func passwordComplexity(password string) *apperr.FieldError {
	if !lowerRe.MatchString(password) || !upperRe.MatchString(password) || !digitRe.MatchString(password) {
		return &apperr.FieldError{
			Field:   "password",
			Message: "Password must contain at least one uppercase letter, one lowercase letter, and one number",
		}
	}
	return nil
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := httpapi.Bind(c, &req); err != nil {
		apperr.Abort(c, err)
		return
	}
	if fe := passwordComplexity(req.Password); fe != nil {
		apperr.Abort(c, apperr.Validation("Validation Error", *fe))
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		apperr.Abort(c, mapUserErr(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   gin.H{"user": toUserResponse(user)},
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := httpapi.Bind(c, &req); err != nil {
		apperr.Abort(c, err)
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperr.Abort(c, mapUserErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"token": token,
			"user":  toUserResponse(user),
		},
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.svc.Get(c.Request.Context(), auth.UserID(c))
	if err != nil {
		apperr.Abort(c, mapUserErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"user": toUserResponse(user)},
	})
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	if !canManage(c, id) {
		apperr.Abort(c, apperr.Authorization("You do not have permission to perform this action"))
		return
	}

	var req updateRequest
	if err := httpapi.Bind(c, &req); err != nil {
		apperr.Abort(c, err)
		return
	}
	if req.Password != nil {
		if fe := passwordComplexity(*req.Password); fe != nil {
			apperr.Abort(c, apperr.Validation("Validation Error", *fe))
			return
		}
	}

	user, err := h.svc.Update(c.Request.Context(), id, service.UpdateInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		apperr.Abort(c, mapUserErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"user": toUserResponse(user)},
	})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	if !canManage(c, id) {
		apperr.Abort(c, apperr.Authorization("You do not have permission to perform this action"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apperr.Abort(c, mapUserErr(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// canManage allows users to manage their own account and admins to manage
// any account.
func canManage(c *gin.Context, targetID string) bool {
	return auth.UserID(c) == targetID || auth.UserRole(c) == domain.RoleAdmin
}

func mapUserErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return apperr.Conflict("Email already in use")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperr.Authentication("Incorrect email or password")
	case errors.Is(err, domain.ErrUserNotFound):
		return apperr.NotFound("User not found")
	default:
		return apperr.Internal("user operation failed", err)
	}
}
