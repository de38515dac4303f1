package tracking

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/web"
)

// Handler handles HTTP requests for the tracking service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new tracking handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes mounts history, stream and worker endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders/:id/history", h.GetOrderHistory)
	rg.GET("/orders/:id/stream", h.StreamOrder)
	rg.GET("/workers/status", h.GetWorkerStatus)
}

// GetOrderHistory handles GET /orders/:id/history
func (h *Handler) GetOrderHistory(c *gin.Context) {
	requestID := web.GetRequestID(c)

	id, ok := h.orderID(c)
	if !ok {
		return
	}

	h.logger.Debug("request_received", "Get order history request", requestID, map[string]interface{}{
		"order_id": id.String(),
		"endpoint": "history",
	})

	history, err := h.service.GetOrderHistory(c.Request.Context(), id, requestID)
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetWorkerStatus handles GET /workers/status
func (h *Handler) GetWorkerStatus(c *gin.Context) {
	workers, err := h.service.GetWorkerStatus(c.Request.Context(), web.GetRequestID(c))
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}

	c.JSON(http.StatusOK, workers)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	healthy := h.service.HealthCheck(c.Request.Context())

	response := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "order-service",
		"healthy":   healthy,
	}

	if !healthy {
		response["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) orderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		web.WriteError(c, h.logger, "validation_failed", models.ValidationError{Field: "id", Message: "invalid order id"})
		return uuid.Nil, false
	}
	return id, true
}
