package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "gymsite/internal/log"
	"gymsite/internal/payments"
	"gymsite/internal/services"
	"gymsite/internal/validate"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

// POST /api/v1/checkout  {"membershipType": "monthly"}
func (h *CheckoutHandler) Start(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var in struct {
		MembershipType string `json:"membershipType" form:"membershipType"`
	}
	if err := c.BodyParser(&in); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	membership, ok := validate.Membership(in.MembershipType)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "membershipType"})
		return jsonError(c, fiber.StatusBadRequest, "unknown membership type")
	}

	url, err := h.Checkout.Start(c.UserContext(), sid, membership)
	switch {
	case errors.Is(err, payments.ErrEmptyCart):
		return jsonError(c, fiber.StatusBadRequest, "your cart is empty")
	case errors.Is(err, payments.ErrNotConfigured):
		return jsonError(c, fiber.StatusServiceUnavailable, "checkout is not available right now")
	case err != nil:
		applog.Error(c, "checkout.start.fail", err, map[string]any{"membership": membership})
		return jsonError(c, fiber.StatusBadGateway, "could not start checkout, please retry")
	}
	applog.Audit(c, "checkout.start", map[string]any{"membership": membership})
	return c.JSON(fiber.Map{"url": url})
}
