package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/golf-edge/internal/services"
	"github.com/stitts-dev/golf-edge/pkg/database"
)

// HealthStatus is the health check payload.
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db      *database.DB
	redis   *redis.Client
	breaker *services.CircuitBreakerService
	logger  *logrus.Logger
}

// NewHealthHandler creates a new health handler. db may be nil when
// persistence is disabled.
func NewHealthHandler(db *database.DB, redisClient *redis.Client, breaker *services.CircuitBreakerService, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redisClient,
		breaker: breaker,
		logger:  logger,
	}
}

// GetHealth returns the basic health status
func (h *HealthHandler) GetHealth(c *gin.Context) {
	response := HealthStatus{
		Status:    "ok",
		Service:   "golf-edge",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			response.Status = "unhealthy"
			response.Checks["database"] = "failed: " + err.Error()
		} else {
			response.Checks["database"] = "ok"
		}
	} else {
		response.Checks["database"] = "disabled"
	}

	if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		response.Status = "unhealthy"
		response.Checks["redis"] = "failed: " + err.Error()
	} else {
		response.Checks["redis"] = "ok"
	}

	response.Checks["feed_breaker"] = h.breaker.GetState(services.BreakerFeed).String()
	response.Checks["predictions_breaker"] = h.breaker.GetState(services.BreakerPredictions).String()

	statusCode := http.StatusOK
	if response.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// GetReady reports whether the service can accept traffic. The engine serving
// an empty view is still ready; readiness only gates on process wiring.
func (h *HealthHandler) GetReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"service":   "golf-edge",
		"timestamp": time.Now(),
	})
}
