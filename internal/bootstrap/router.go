package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/algoviz-io/algoviz-backend/internal/api/http"
	"github.com/algoviz-io/algoviz-backend/internal/api/http/middleware"
	"github.com/algoviz-io/algoviz-backend/internal/apperr"
	"github.com/algoviz-io/algoviz-backend/internal/auth"
	userhttp "github.com/algoviz-io/algoviz-backend/internal/users/http"
	userrepo "github.com/algoviz-io/algoviz-backend/internal/users/repository"
	userservice "github.com/algoviz-io/algoviz-backend/internal/users/service"
	"github.com/algoviz-io/algoviz-backend/internal/visualizations/cache"
	vizhttp "github.com/algoviz-io/algoviz-backend/internal/visualizations/http"
	vizrepo "github.com/algoviz-io/algoviz-backend/internal/visualizations/repository"
	vizservice "github.com/algoviz-io/algoviz-backend/internal/visualizations/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Production  bool
	DB          *pgxpool.Pool
	Cache       *redis.Client
	Tokens      *auth.TokenManager
	Generator   vizservice.Generator
	GenTimeout  time.Duration

	// GenerateRPS/GenerateBurst bound the per-user rate on the generation
	// endpoint. Zero values fall back to defaults.
	GenerateRPS   float64
	GenerateBurst int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
	}))
	r.Use(apperr.Middleware(dep.Production))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Cache)
	healthHandler.RegisterRoutes(r)

	userRepo := userrepo.NewRepo(dep.DB)
	userSvc := userservice.New(userRepo, dep.Tokens)

	vizRepo := vizrepo.NewRepo(dep.DB)
	vizSvc := vizservice.New(dep.Generator, vizRepo, cache.New(dep.Cache), dep.GenTimeout)

	requireAuth := auth.Middleware(dep.Tokens, userRepo)

	api := r.Group("/api/v1")

	usersPublic := api.Group("/users")
	usersProtected := api.Group("/users")
	usersProtected.Use(requireAuth)
	userhttp.Register(usersPublic, usersProtected, userSvc)

	rps := dep.GenerateRPS
	if rps <= 0 {
		rps = 0.5
	}
	burst := dep.GenerateBurst
	if burst <= 0 {
		burst = 3
	}
	limiter := middleware.NewRateLimiter(rps, burst)

	viz := api.Group("/visualizations")
	viz.Use(requireAuth)
	vizhttp.Register(viz, vizSvc, limiter.Handler())

	return r
}
