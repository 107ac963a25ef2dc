package handlers

import (
	"strings"

	"gymsite/internal/domain"
	"gymsite/internal/log"
	"gymsite/internal/services"
	"gymsite/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products?category=&featured=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return jsonError(c, fiber.StatusBadRequest, "invalid category")
		}
	}
	ps := h.Catalog.List(category, validate.Featured(c.Query("featured")))
	if ps == nil {
		ps = []domain.Product{}
	}
	return c.JSON(ps)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return jsonError(c, fiber.StatusNotFound, "this item is no longer available")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "this item is no longer available")
	}
	return c.JSON(p)
}

func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	cats := h.Catalog.Categories()
	if cats == nil {
		cats = []string{}
	}
	return c.JSON(cats)
}
