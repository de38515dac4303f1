package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/web"
)

type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes mounts payment endpoints. staff guards settlement.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, staff ...gin.HandlerFunc) {
	payments := rg.Group("/payments")
	payments.POST("", h.CreatePayment)
	payments.GET("/:id", h.GetPayment)
	payments.POST("/:id/complete", append(staff, h.CompletePayment)...)
	payments.POST("/:id/fail", append(staff, h.FailPayment)...)
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, h.logger, "Invalid JSON format")
		return
	}

	p, err := h.service.CreatePayment(c.Request.Context(), &req, web.GetRequestID(c))
	if err != nil {
		web.WriteError(c, h.logger, "payment_creation_failed", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}

	p, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CompletePayment(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}

	var req models.CompletePaymentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			web.BadRequest(c, h.logger, "Invalid JSON format")
			return
		}
	}

	p, err := h.service.CompletePayment(c.Request.Context(), id, &req, web.GetRequestID(c))
	if err != nil {
		web.WriteError(c, h.logger, "payment_settle_failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) FailPayment(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}

	p, err := h.service.FailPayment(c.Request.Context(), id, web.GetRequestID(c))
	if err != nil {
		web.WriteError(c, h.logger, "payment_settle_failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) paymentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		web.WriteError(c, h.logger, "validation_failed", models.ValidationError{Field: "id", Message: "invalid payment id"})
		return uuid.Nil, false
	}
	return id, true
}
