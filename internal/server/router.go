// Package server assembles the HTTP API.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Aayushshr101/digital-menu-backend/internal/auth"
	"github.com/Aayushshr101/digital-menu-backend/internal/config"
	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/metrics"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/menu"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/order"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/payment"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/qrcode"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/tracking"
	"github.com/Aayushshr101/digital-menu-backend/internal/web"
)

// Handlers are the API's route groups. Nil entries are not mounted.
type Handlers struct {
	Auth     *auth.Handler
	Menu     *menu.Handler
	Orders   *order.Handler
	Tracking *tracking.Handler
	Payments *payment.Handler
	QRCodes  *qrcode.Handler
}

// NewRouter builds the gin engine. staff guards the staff-only endpoints.
func NewRouter(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, h Handlers, staff gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), web.RequestID(), web.Logging(log), corsMiddleware(cfg.Server.AllowedOrigins))

	r.GET("/metrics", gin.WrapH(m.Handler()))
	if cfg.Media.Dir != "" && cfg.Media.BaseURL != "" {
		r.Static(cfg.Media.BaseURL, cfg.Media.Dir)
	}

	api := r.Group("/api/v1")
	if h.Tracking != nil {
		r.GET("/health", h.Tracking.HealthCheck)
		h.Tracking.RegisterRoutes(api)
	}
	if h.Auth != nil {
		h.Auth.RegisterRoutes(api)
	}
	if h.Menu != nil {
		h.Menu.RegisterRoutes(api)
	}
	if h.Orders != nil {
		h.Orders.RegisterRoutes(api, staff)
	}
	if h.Payments != nil {
		h.Payments.RegisterRoutes(api, staff)
	}
	if h.QRCodes != nil {
		h.QRCodes.RegisterRoutes(api, staff)
	}

	r.NoRoute(func(c *gin.Context) {
		web.WriteError(c, log, "route_not_found", &models.NotFoundError{Resource: "endpoint", ID: c.Request.URL.Path})
	})

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", web.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", web.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}
