package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gymsite/internal/gateway"
	"gymsite/internal/services"
)

type ContentHandler struct {
	GW      *gateway.Gateway
	Catalog *services.CatalogService
}

// GET /
func (h *ContentHandler) HomePage(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{
		"Settings":     h.GW.Settings(),
		"Home":         h.GW.Home(),
		"Featured":     h.Catalog.List("", true),
		"Testimonials": h.GW.Testimonials(),
	})
}

func (h *ContentHandler) Settings(c *fiber.Ctx) error { return c.JSON(h.GW.Settings()) }

func (h *ContentHandler) Home(c *fiber.Ctx) error { return c.JSON(h.GW.Home()) }

func (h *ContentHandler) Testimonials(c *fiber.Ctx) error { return c.JSON(h.GW.Testimonials()) }

// GET /api/v1/status reports per-entity load progress. Clients gate
// admin-dependent views on "ready".
func (h *ContentHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ready":    h.GW.Ready(),
		"remote":   h.GW.RemoteConfigured(),
		"entities": h.GW.LoadStates(),
	})
}
