package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	adminHandler "github.com/mediconnect/clinic-api/internal/handler/admin"
	doctorHandler "github.com/mediconnect/clinic-api/internal/handler/doctor"
	healthHandler "github.com/mediconnect/clinic-api/internal/handler/health"
	hospitalHandler "github.com/mediconnect/clinic-api/internal/handler/hospital"
	searchHandler "github.com/mediconnect/clinic-api/internal/handler/search"
	userHandler "github.com/mediconnect/clinic-api/internal/handler/user"
	"github.com/mediconnect/clinic-api/internal/middleware"
	"github.com/mediconnect/clinic-api/pkg/auth"
	"github.com/mediconnect/clinic-api/pkg/metrics"
)

type Config struct {
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	CORS             middleware.CORSConfig
	RequestTimeout   time.Duration
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	healthH   *healthHandler.Handler
	adminH    *adminHandler.Handler
	doctorH   *doctorHandler.Handler
	hospitalH *hospitalHandler.Handler
	userH     *userHandler.Handler
	searchH   *searchHandler.Handler
	metrics   *metrics.Metrics
}

func New(
	authMw *middleware.AuthMiddleware,
	healthH *healthHandler.Handler,
	adminH *adminHandler.Handler,
	doctorH *doctorHandler.Handler,
	hospitalH *hospitalHandler.Handler,
	userH *userHandler.Handler,
	searchH *searchHandler.Handler,
	m *metrics.Metrics,
	log zerolog.Logger,
	cfg Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidators()
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logger(log),
		m.Middleware(),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.CORS(cfg.CORS),
	)

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		engine.Use(limiter.RateLimit())
	}

	return &Router{
		engine:    engine,
		auth:      authMw,
		healthH:   healthH,
		adminH:    adminH,
		doctorH:   doctorH,
		hospitalH: hospitalH,
		userH:     userH,
		searchH:   searchH,
		metrics:   m,
	}
}

func (r *Router) Setup() {
	api := r.engine.Group("/api")

	r.healthH.RegisterRoutes(api)
	api.GET("/metrics", r.metrics.Handler())

	// Public surface: directory browsing, search, registration, logins.
	r.doctorH.RegisterPublicRoutes(api)
	r.hospitalH.RegisterPublicRoutes(api)
	r.searchH.RegisterRoutes(api)

	users := api.Group("/user")
	r.userH.RegisterPublicRoutes(users)

	admins := api.Group("/admin")
	r.adminH.RegisterPublicRoutes(admins)

	// Role-guarded surfaces.
	userAuthed := users.Group("")
	userAuthed.Use(r.auth.RequireRole(auth.RolePatient))
	r.userH.RegisterRoutes(userAuthed)

	doctorAuthed := api.Group("/doctor")
	doctorAuthed.Use(r.auth.RequireRole(auth.RoleDoctor))
	r.doctorH.RegisterRoutes(doctorAuthed)

	adminAuthed := admins.Group("")
	adminAuthed.Use(r.auth.RequireRole(auth.RoleAdmin))
	r.adminH.RegisterRoutes(adminAuthed)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
