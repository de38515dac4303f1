package order

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/web"
)

const requestTimeout = 30 * time.Second

// OrderService is the behavior the handler needs from Service.
type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest, requestID string) (*models.Order, error)
	AppendItems(ctx context.Context, id uuid.UUID, req *models.AppendItemsRequest, requestID string) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, tableID *uuid.UUID, limit int) ([]models.Order, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, to models.OrderStatus, changedBy, notes, requestID string) (*models.Order, error)
}

// Handler handles HTTP requests for orders
type Handler struct {
	service OrderService
	logger  *logger.Logger
}

func NewHandler(service OrderService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes mounts the order endpoints. staff guards the status endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, staff ...gin.HandlerFunc) {
	orders := rg.Group("/orders")
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.POST("/:id/items", h.AppendItems)
	orders.PATCH("/:id/status", append(staff, h.UpdateStatus)...)
}

// CreateOrder handles POST /orders
func (h *Handler) CreateOrder(c *gin.Context) {
	requestID := web.GetRequestID(c)

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, h.logger, "Invalid JSON format")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.service.CreateOrder(ctx, &req, requestID)
	if err != nil {
		web.WriteError(c, h.logger, "order_creation_failed", err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// AppendItems handles POST /orders/:id/items
func (h *Handler) AppendItems(c *gin.Context) {
	requestID := web.GetRequestID(c)

	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req models.AppendItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, h.logger, "Invalid JSON format")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.service.AppendItems(ctx, id, &req, requestID)
	if err != nil {
		web.WriteError(c, h.logger, "order_append_failed", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetOrder handles GET /orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /orders?table=&limit=
func (h *Handler) ListOrders(c *gin.Context) {
	var tableID *uuid.UUID
	if raw := c.Query("table"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			web.WriteError(c, h.logger, "validation_failed", models.ValidationError{Field: "table", Message: "invalid table id"})
			return
		}
		tableID = &id
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			web.WriteError(c, h.logger, "validation_failed", models.ValidationError{Field: "limit", Message: "limit must be a number"})
			return
		}
		limit = n
	}

	orders, err := h.service.ListOrders(c.Request.Context(), tableID, limit)
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	requestID := web.GetRequestID(c)

	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, h.logger, "Invalid JSON format")
		return
	}

	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		web.WriteError(c, h.logger, "validation_failed", err)
		return
	}

	changedBy := c.GetString("username")
	if changedBy == "" {
		changedBy = "staff"
	}

	order, err := h.service.TransitionStatus(c.Request.Context(), id, status, changedBy, req.Notes, requestID)
	if err != nil {
		web.WriteError(c, h.logger, "status_update_failed", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) orderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		web.WriteError(c, h.logger, "validation_failed", models.ValidationError{Field: "id", Message: "invalid order id"})
		return uuid.Nil, false
	}
	return id, true
}
