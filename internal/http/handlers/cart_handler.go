package handlers

import (
	"errors"

	"gymsite/internal/log"
	"gymsite/internal/services"
	"gymsite/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	return c.JSON(h.Cart.View(ensureSID(c)))
}

type addItemInput struct {
	ProductID string `json:"productId" form:"productId"`
	Size      string `json:"size" form:"size"`
}

// POST /api/v1/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var in addItemInput
	if err := c.BodyParser(&in); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	productID, ok := validate.ID(in.ProductID)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return jsonError(c, fiber.StatusBadRequest, "missing productId")
	}
	size, ok := validate.Size(in.Size)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "size"})
		return jsonError(c, fiber.StatusBadRequest, "choose a size")
	}
	cv, err := h.Cart.Add(sid, productID, size)
	switch {
	case errors.Is(err, services.ErrUnknownProduct):
		return jsonError(c, fiber.StatusNotFound, "this item is no longer available")
	case errors.Is(err, services.ErrOutOfStock):
		return jsonError(c, fiber.StatusConflict, "that size is sold out")
	case err != nil:
		return err
	}
	return c.JSON(cv)
}

// PATCH /api/v1/cart/:cartId  {"delta": -1}
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cartID, ok := validate.CartID(c.Params("cartId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid cart item")
	}
	var in struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&in); err != nil || !validate.Delta(in.Delta) {
		return jsonError(c, fiber.StatusBadRequest, "delta must be between -50 and 50")
	}
	return c.JSON(h.Cart.Update(sid, cartID, in.Delta))
}

// DELETE /api/v1/cart/:cartId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cartID, ok := validate.CartID(c.Params("cartId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid cart item")
	}
	return c.JSON(h.Cart.Remove(sid, cartID))
}
