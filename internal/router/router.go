package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doctorsportal/booking-api/internal/handler"
	authHandler "github.com/doctorsportal/booking-api/internal/handler/auth"
	bookingHandler "github.com/doctorsportal/booking-api/internal/handler/booking"
	catalogHandler "github.com/doctorsportal/booking-api/internal/handler/catalog"
	doctorHandler "github.com/doctorsportal/booking-api/internal/handler/doctor"
	userHandler "github.com/doctorsportal/booking-api/internal/handler/user"
	"github.com/doctorsportal/booking-api/internal/middleware"
	"github.com/doctorsportal/booking-api/internal/model"
)

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORS           middleware.CORSConfig
	MetricsPrefix  string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	catalogH *catalogHandler.Handler
	bookingH *bookingHandler.Handler
	userH    *userHandler.Handler
	doctorH  *doctorHandler.Handler
	authH    *authHandler.Handler
	h        *handler.Handler
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	catalogH *catalogHandler.Handler,
	bookingH *bookingHandler.Handler,
	userH *userHandler.Handler,
	doctorH *doctorHandler.Handler,
	authH *authHandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		catalogH: catalogH,
		bookingH: bookingH,
		userH:    userH,
		doctorH:  doctorH,
		authH:    authH,
		h:        h,
		metrics:  initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.CORS(config.CORS),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimitRPS,
		Burst: config.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	health := r.engine.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
	}

	api := r.engine.Group("/api/v1")

	// Public routes: catalog, availability, reservation, login
	r.catalogH.RegisterRoutes(api)
	r.bookingH.RegisterPublicRoutes(api)
	r.userH.RegisterPublicRoutes(api)
	r.authH.RegisterRoutes(api)

	// Credential-protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.bookingH.RegisterRoutes(protected)
	r.userH.RegisterRoutes(protected)

	// Admin-gated routes: the role is re-read per request
	admin := protected.Group("")
	admin.Use(r.auth.RequireRole(model.RoleAdmin))
	r.userH.RegisterAdminRoutes(admin)
	r.doctorH.RegisterAdminRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
