package handlers

import (
	"net/http"

	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/gin-gonic/gin"
)

// CatalogHandlers serves the read-only tag and ingredient catalog
type CatalogHandlers struct {
	catalog inbound.CatalogService
}

// NewCatalogHandlers creates catalog handlers
func NewCatalogHandlers(catalog inbound.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// ListTags handles GET /api/tags
func (h *CatalogHandlers) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if tags == nil {
		tags = []inbound.TagView{}
	}
	c.JSON(http.StatusOK, tags)
}

// GetTag handles GET /api/tags/:id
func (h *CatalogHandlers) GetTag(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	tag, err := h.catalog.ResolveTag(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// SearchIngredients handles GET /api/ingredients?name=
func (h *CatalogHandlers) SearchIngredients(c *gin.Context) {
	items, err := h.catalog.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		fail(c, err)
		return
	}
	if items == nil {
		items = []inbound.IngredientView{}
	}
	c.JSON(http.StatusOK, items)
}

// GetIngredient handles GET /api/ingredients/:id
func (h *CatalogHandlers) GetIngredient(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	item, err := h.catalog.ResolveIngredient(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
