package qrcode

import (
	"io"
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

// RegisterRoutes mounts the QR endpoints. staff guards uploads.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, staff ...gin.HandlerFunc) {
	rg.GET("/qrcode", h.Get)
	rg.POST("/qrcode", append(staff, h.Upload)...)
}

func (h *Handler) Get(c *gin.Context) {
	qr, err := h.service.Active(c.Request.Context())
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"qrCode": qr})
}

// Upload handles a multipart form with the image under "image".
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		web.WriteError(c, h.logger, "validation_failed", models.ValidationError{Field: "image", Message: "Please upload an image"})
		return
	}

	f, err := file.Open()
	if err != nil {
		web.WriteError(c, h.logger, "upload_read_failed", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		web.WriteError(c, h.logger, "upload_read_failed", err)
		return
	}

	qr, err := h.service.Upload(c.Request.Context(), data, web.GetRequestID(c))
	if err != nil {
		web.WriteError(c, h.logger, "qr_upload_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"qrCode": qr})
}
