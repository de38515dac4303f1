package menu

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/web"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	store  Store
	logger *logger.Logger
}

func NewHandler(store Store, log *logger.Logger) *Handler {
	return &Handler{store: store, logger: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
	rg.GET("/menu-items", h.ListMenuItems)
	rg.GET("/menu", h.GetMenu)
	rg.GET("/tables", h.ListTables)
	rg.GET("/tables/:id", h.GetTable)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ListMenuItems returns every item, including unavailable ones.
func (h *Handler) ListMenuItems(c *gin.Context) {
	items, err := h.store.ListMenuItems(c.Request.Context())
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetMenu returns orderable items grouped by category.
func (h *Handler) GetMenu(c *gin.Context) {
	items, err := h.store.ListMenuItems(c.Request.Context())
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}
	sections := GroupByCategory(items)
	if sections == nil {
		sections = []Section{}
	}
	c.JSON(http.StatusOK, sections)
}

func (h *Handler) ListTables(c *gin.Context) {
	tables, err := h.store.ListTables(c.Request.Context())
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *Handler) GetTable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		web.WriteError(c, h.logger, "validation_failed", models.ValidationError{Field: "id", Message: "invalid table id"})
		return
	}

	table, err := h.store.GetTable(c.Request.Context(), id)
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, table)
}
