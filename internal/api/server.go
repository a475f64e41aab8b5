package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/siteinsight/internal/config"
	"github.com/jonesrussell/siteinsight/internal/logger"
)

// requestIDKey is the gin context key carrying the request ID.
const requestIDKey = "request_id"

// RequestID assigns a UUID to every request and echoes it in the
// X-Request-ID response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestIDFromContext returns the request ID assigned by the middleware.
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(handler *Handler, metricsHandler http.Handler, log logger.Interface, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID())

	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	router.GET("/metrics", gin.WrapH(metricsHandler))
	router.POST("/analyze", handler.Analyze)

	return router
}

// NewServer builds the HTTP server around the router.
func NewServer(cfg config.ServerConfig, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
