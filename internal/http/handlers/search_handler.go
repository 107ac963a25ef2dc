package handlers

import (
	"strings"

	"gymsite/internal/domain"
	"gymsite/internal/log"
	"gymsite/internal/services"
	"gymsite/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		return c.JSON(fiber.Map{"q": "", "products": []domain.Product{}, "count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		return jsonError(c, fiber.StatusBadRequest, "enter a valid keyword (letters/numbers only)")
	}
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return jsonError(c, fiber.StatusBadRequest, "invalid category")
		}
	}

	products := h.Catalog.Search(q, category)
	if products == nil {
		products = []domain.Product{}
	}
	return c.JSON(fiber.Map{"q": q, "products": products, "count": len(products)})
}
