package handlers

import (
	"plant_monitor/internal/logger"
	"plant_monitor/internal/metrics"
	"plant_monitor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultHistoryDisplay = 5

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	metrics        *metrics.Metrics
	historyDisplay int
}

type Option func(*Handler)

// WithMetrics enables the request middleware and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithHistoryDisplay sets how many waterings GET /watering returns by default.
func WithHistoryDisplay(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.historyDisplay = n
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log, historyDisplay: defaultHistoryDisplay}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if h.metrics != nil {
		router.Use(h.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerPlantRoutes(api)
		h.registerWateringRoutes(api)
		api.GET("/logs", h.getLogs)
	}
}

func (h *Handler) registerPlantRoutes(api *gin.RouterGroup) {
	plant := api.Group("/plant")
	{
		plant.GET("/snapshot", h.getSnapshot)
		// Body example: {"temperature":24,"humidity":50,"moisture":"wet","light":500,"ph":6.5}
		plant.POST("/advisory", h.evaluateAdvisory)
	}
}

func (h *Handler) registerWateringRoutes(api *gin.RouterGroup) {
	watering := api.Group("/watering")
	{
		watering.GET("", h.getWatering)
		watering.POST("/water", h.waterNow)
		watering.PUT("/interval", h.setInterval)
	}
}
