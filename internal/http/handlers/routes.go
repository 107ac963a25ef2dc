package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "gymsite/internal/log"
)

func jsonLimiter(max int, window time.Duration, key string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|" + key
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate."+key+".hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
}

// Register mounts every page and API route. Global middleware (request ids,
// access log, CSRF) is the caller's.
func Register(app *fiber.App, d *Deps) {
	app.Get("/", d.ContentHandler.HomePage)

	api := app.Group("/api/v1")
	api.Get("/status", d.ContentHandler.Status)
	api.Get("/settings", d.ContentHandler.Settings)
	api.Get("/home", d.ContentHandler.Home)
	api.Get("/testimonials", d.ContentHandler.Testimonials)

	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/categories", d.ProductHandler.Categories)
	api.Get("/availability", jsonLimiter(15, 30*time.Second, "availability"), d.InventoryHandler.Check)
	api.Get("/search", jsonLimiter(20, time.Minute, "search"), d.SearchHandler.Search)

	api.Get("/cart", d.CartHandler.View)
	api.Post("/cart", d.CartHandler.Add)
	api.Patch("/cart/:cartId", d.CartHandler.Update)
	api.Delete("/cart/:cartId", d.CartHandler.Remove)
	api.Post("/checkout", jsonLimiter(10, time.Minute, "checkout"), d.CheckoutHandler.Start)

	// Admin CMS
	admin := api.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/sync", d.AdminHandler.Sync)
	admin.Get("/checkouts", d.AdminHandler.ListCheckouts)

	ready := RequireReady(d.Gateway)
	admin.Put("/settings", ready, d.AdminHandler.SaveSettings)
	admin.Put("/home", ready, d.AdminHandler.SaveHome)
	admin.Post("/products", ready, d.AdminHandler.CreateProduct)
	admin.Patch("/products", ready, d.AdminHandler.BulkEditProducts)
	admin.Put("/products/:id", ready, d.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", ready, d.AdminHandler.DeleteProduct)
	admin.Put("/products/:id/stock", ready, d.AdminHandler.SetStock)
	admin.Post("/testimonials", ready, d.AdminHandler.CreateTestimonial)
	admin.Put("/testimonials/:id", ready, d.AdminHandler.UpdateTestimonial)
	admin.Delete("/testimonials/:id", ready, d.AdminHandler.DeleteTestimonial)

	// Auth routes (login throttled)
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
