// Package http exposes the visualization endpoints.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/algoviz-io/algoviz-backend/internal/api/http"
	"github.com/algoviz-io/algoviz-backend/internal/apperr"
	"github.com/algoviz-io/algoviz-backend/internal/auth"
	"github.com/algoviz-io/algoviz-backend/internal/visualizations/domain"
	"github.com/algoviz-io/algoviz-backend/internal/visualizations/service"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type Handler struct {
	svc *service.Service
}

// Register mounts the visualization routes. The group is expected to carry
// the auth middleware; extra applies only to the generation endpoint
// (rate limiting).
func Register(rg *gin.RouterGroup, svc *service.Service, extra ...gin.HandlerFunc) {
	h := &Handler{svc: svc}

	create := append(append([]gin.HandlerFunc{}, extra...), h.create)
	rg.POST("", create...)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := httpapi.Bind(c, &req); err != nil {
		apperr.Abort(c, err)
		return
	}
	if fe := validateInput(req.Input); fe != nil {
		apperr.Abort(c, apperr.Validation("Validation Error", *fe))
		return
	}

	vizReq := domain.VisualizationRequest{
		AlgorithmType: domain.AlgorithmType(req.AlgorithmType),
		Algorithm:     req.Algorithm,
		Input:         req.Input,
		Speed:         domain.Speed(req.Speed),
	}

	rec, err := h.svc.Create(c.Request.Context(), auth.UserID(c), vizReq, req.Title, req.Description)
	if err != nil {
		apperr.Abort(c, mapVizErr(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   gin.H{"visualization": rec},
	})
}

func (h *Handler) get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		apperr.Abort(c, mapVizErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"visualization": rec},
	})
}

func (h *Handler) list(c *gin.Context) {
	page := queryInt(c, "page", defaultPage)
	limit := queryInt(c, "limit", defaultLimit)
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	items, total, err := h.svc.List(c.Request.Context(), auth.UserID(c), page, limit)
	if err != nil {
		apperr.Abort(c, mapVizErr(err))
		return
	}

	pages := (total + limit - 1) / limit

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"items": items,
			"total": total,
		},
		"pagination": pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		apperr.Abort(c, mapVizErr(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func mapVizErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperr.NotFound("Visualization not found")
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return apperr.Timeout("Visualization generation timed out", err)
	case errors.Is(err, domain.ErrGenerationFailed):
		return apperr.Upstream("Failed to generate visualization", err)
	default:
		return apperr.Internal("visualization operation failed", err)
	}
}
