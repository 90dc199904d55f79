package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HealthChecker reports readiness of a downstream dependency.
type HealthChecker func() error

// NewRouter assembles the engine's HTTP surface.
func NewRouter(
	queueHandler *QueueHandler,
	vendorHandler *VendorHandler,
	health HealthChecker,
	logger *zap.Logger,
	env string,
) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	api := r.Group("/api")
	{
		api.POST("/queue/enqueue", queueHandler.Enqueue)
		api.POST("/queue/poll", queueHandler.Poll)
		api.POST("/queue/access-code", queueHandler.RedeemAccessCode)
		api.POST("/bookings/:bookingId/access-code", queueHandler.MintAccessCode)
		api.POST("/consoles/:consoleId/release", queueHandler.Release)

		api.GET("/vendors/:vendorId/consoles", vendorHandler.ConsoleSnapshot)
		api.POST("/vendors/:vendorId/slots/regenerate", vendorHandler.RegenerateDaySlots)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		if err := health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return r
}
