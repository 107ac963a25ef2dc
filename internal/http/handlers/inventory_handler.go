package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gymsite/internal/services"
	"gymsite/internal/validate"
)

type InventoryHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

// GET /api/v1/availability?productId=&size=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing productId")
	}
	size, ok := validate.Size(c.Query("size"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "enter a valid size")
	}
	p, err := h.Catalog.Get(productID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "unknown product")
	}
	return c.JSON(h.Inv.Availability(p, size))
}
