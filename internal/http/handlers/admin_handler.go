package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gymsite/internal/domain"
	"gymsite/internal/gateway"
	applog "gymsite/internal/log"
	"gymsite/internal/repos"
	"gymsite/internal/services"
	"gymsite/internal/validate"
)

type AdminHandler struct {
	GW        *gateway.Gateway
	Catalog   *services.CatalogService
	Inv       *services.InventoryService
	Checkouts *repos.CheckoutRepo
}

// GET /api/v1/admin/sync lists remote writes that did not land, so the CMS
// can tell the admin a save only reached this server.
func (h *AdminHandler) Sync(c *fiber.Ctx) error {
	failures := h.GW.Failures()
	if failures == nil {
		failures = []gateway.Failure{}
	}
	return c.JSON(fiber.Map{
		"remote":   h.GW.RemoteConfigured(),
		"ready":    h.GW.Ready(),
		"entities": h.GW.LoadStates(),
		"failures": failures,
	})
}

// GET /api/v1/admin/checkouts
func (h *AdminHandler) ListCheckouts(c *fiber.Ctx) error {
	list, err := h.Checkouts.ListLatest(c.QueryInt("limit", 100))
	if err != nil {
		applog.Error(c, "admin.checkouts.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load checkouts")
	}
	if list == nil {
		list = []repos.CheckoutSummary{}
	}
	return c.JSON(list)
}

func (h *AdminHandler) SaveSettings(c *fiber.Ctx) error {
	var s domain.Settings
	if err := c.BodyParser(&s); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if msg := checkSettings(&s); msg != "" {
		applog.Security(c, "validation.fail", map[string]any{"entity": "settings", "reason": msg})
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	s = h.GW.SaveSettings(s)
	applog.Audit(c, "admin.settings.save", nil)
	return c.JSON(s)
}

func (h *AdminHandler) SaveHome(c *fiber.Ctx) error {
	var hc domain.HomeContent
	if err := c.BodyParser(&hc); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	fields := []*string{&hc.Headline, &hc.Subheadline, &hc.CTAText, &hc.CTALink, &hc.HeroImage}
	for _, f := range fields {
		v, ok := validate.Text(*f, 300)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "field too long")
		}
		*f = v
	}
	about, ok := validate.Text(hc.About, 5000)
	if !ok || strings.TrimSpace(hc.Headline) == "" {
		return jsonError(c, fiber.StatusBadRequest, "headline is required")
	}
	hc.About = about
	hc = h.GW.SaveHome(hc)
	applog.Audit(c, "admin.home.save", map[string]any{"headline": hc.Headline})
	return c.JSON(hc)
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if p.ID != "" {
		if _, err := h.Catalog.Get(p.ID); err == nil {
			return jsonError(c, fiber.StatusConflict, "a product with this id exists")
		}
	}
	return h.saveProduct(c, p, fiber.StatusCreated)
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown product")
	}
	if _, err := h.Catalog.Get(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "unknown product")
	}
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	p.ID = id
	return h.saveProduct(c, p, fiber.StatusOK)
}

func (h *AdminHandler) saveProduct(c *fiber.Ctx, p domain.Product, status int) error {
	if msg := checkProduct(&p); msg != "" {
		applog.Security(c, "validation.fail", map[string]any{"entity": "product", "reason": msg})
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	p = h.Catalog.Save(p)
	applog.Audit(c, "admin.product.save", map[string]any{"product": p.ID, "price": p.Price})
	return c.Status(status).JSON(p)
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown product")
	}
	if err := h.Catalog.Delete(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "unknown product")
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// PATCH /api/v1/admin/products  [{"id":"m1","price":24.99,"featured":true}]
func (h *AdminHandler) BulkEditProducts(c *fiber.Ctx) error {
	var edits []services.BulkEdit
	if err := c.BodyParser(&edits); err != nil || len(edits) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "expected a list of edits")
	}
	for _, e := range edits {
		if e.Price != nil && !validate.Price(*e.Price) {
			return jsonError(c, fiber.StatusBadRequest, "invalid price for "+e.ID)
		}
	}
	updated, unknown := h.Catalog.ApplyBulk(edits)
	if updated == nil {
		updated = []domain.Product{}
	}
	if unknown == nil {
		unknown = []string{}
	}
	applog.Audit(c, "admin.product.bulk", map[string]any{"updated": len(updated), "unknown": unknown})
	return c.JSON(fiber.Map{"updated": updated, "unknown": unknown})
}

// PUT /api/v1/admin/products/:id/stock  {"size":"M","qty":10}
func (h *AdminHandler) SetStock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown product")
	}
	var in struct {
		Size string `json:"size"`
		Qty  int    `json:"qty"`
	}
	if err := c.BodyParser(&in); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	size, ok := validate.Size(in.Size)
	if !ok || !validate.Stock(in.Qty) {
		return jsonError(c, fiber.StatusBadRequest, "invalid size or quantity")
	}
	p, err := h.Inv.SetStock(id, size, in.Qty)
	if errors.Is(err, services.ErrUnknownProduct) {
		return jsonError(c, fiber.StatusNotFound, "unknown product")
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product": id, "size": size, "qty": in.Qty})
	return c.JSON(p)
}

func (h *AdminHandler) CreateTestimonial(c *fiber.Ctx) error {
	var t domain.Testimonial
	if err := c.BodyParser(&t); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	t.ID = uuid.NewString()
	return h.saveTestimonial(c, t, fiber.StatusCreated)
}

func (h *AdminHandler) UpdateTestimonial(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown testimonial")
	}
	var t domain.Testimonial
	if err := c.BodyParser(&t); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	t.ID = id
	return h.saveTestimonial(c, t, fiber.StatusOK)
}

func (h *AdminHandler) saveTestimonial(c *fiber.Ctx, t domain.Testimonial, status int) error {
	name, ok := validate.Name(t.Name)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "name must be 1-80 characters")
	}
	quote, ok := validate.Text(t.Quote, 1000)
	if !ok || quote == "" {
		return jsonError(c, fiber.StatusBadRequest, "quote must be 1-1000 characters")
	}
	role, ok := validate.Text(t.Role, 80)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "role too long")
	}
	t.Name, t.Quote, t.Role = name, quote, role
	t.Source = domain.SourceSite
	t = h.GW.SaveTestimonial(t)
	applog.Audit(c, "admin.testimonial.save", map[string]any{"testimonial": t.ID})
	return c.Status(status).JSON(t)
}

func (h *AdminHandler) DeleteTestimonial(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown testimonial")
	}
	if err := h.GW.DeleteTestimonial(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "unknown testimonial")
	}
	applog.Audit(c, "admin.testimonial.delete", map[string]any{"testimonial": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// checkSettings trims every field in place and returns a message for the
// first invalid one.
func checkSettings(s *domain.Settings) string {
	fields := []*string{&s.GymName, &s.Tagline, &s.Phone, &s.Address, &s.Hours,
		&s.InstagramURL, &s.FacebookURL, &s.GooglePlaceID}
	for _, f := range fields {
		v, ok := validate.Text(*f, 300)
		if !ok {
			return "field too long"
		}
		*f = v
	}
	if s.GymName == "" {
		return "gym name is required"
	}
	if s.Email != "" {
		email, ok := validate.Email(s.Email)
		if !ok {
			return "invalid email"
		}
		s.Email = email
	}
	return ""
}

func checkProduct(p *domain.Product) string {
	if p.ID != "" {
		if _, ok := validate.ID(p.ID); !ok {
			return "invalid id"
		}
	}
	title, ok := validate.Name(p.Title)
	if !ok {
		return "title must be 1-80 characters"
	}
	p.Title = title
	if !validate.Price(p.Price) {
		return "invalid price"
	}
	if p.Category != "" {
		if _, ok := validate.ID(p.Category); !ok {
			return "invalid category"
		}
	}
	desc, ok := validate.Text(p.Description, 2000)
	if !ok {
		return "description too long"
	}
	p.Description = desc
	for size, qty := range p.Inventory {
		if _, ok := validate.Size(size); !ok || !validate.Stock(qty) {
			return "invalid inventory for size " + size
		}
	}
	return ""
}
