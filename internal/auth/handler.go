package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, h.logger, "Invalid JSON format")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req, web.GetRequestID(c))
	if err != nil {
		web.WriteError(c, h.logger, "login_failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
