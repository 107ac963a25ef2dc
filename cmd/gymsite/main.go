package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"gymsite/internal/cache"
	"gymsite/internal/catalog"
	"gymsite/internal/config"
	"gymsite/internal/gateway"
	"gymsite/internal/http/handlers"
	applog "gymsite/internal/log"
	"gymsite/internal/payments"
	"gymsite/internal/remote"
	"gymsite/internal/repos"
	"gymsite/internal/reviews"
	"gymsite/internal/services"
)

var errMissingCSRF = errors.New("missing csrf token")

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		logFile := applog.TeeFile(cfg.LogFile)
		defer logFile.Close()
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := repos.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	// ---------- Local cache ----------
	var backend cache.Backend = repos.NewKVRepo(db)
	if cfg.CacheDriver == "bolt" {
		b, err := cache.OpenBolt(cfg.CachePath)
		if err != nil {
			log.Fatal(err)
		}
		defer b.Close()
		backend = b
	}

	// ---------- Remote store ----------
	var store remote.Store
	switch {
	case cfg.RemoteURL != "":
		store = remote.NewREST(cfg.RemoteURL, cfg.RemoteKey, cfg.RemoteTimeout)
	case cfg.RemoteDSN != "":
		rdb, err := repos.OpenRecordDB(cfg.RemoteDriver, cfg.RemoteDSN)
		if err != nil {
			// Unreachable at start: run on local state for this session.
			applog.Warn(nil, "remote.open.fail", err, map[string]any{"driver": cfg.RemoteDriver})
			break
		}
		defer rdb.Close()
		store = repos.NewRecordRepo(rdb)
	}

	outbox, err := gateway.NewOutbox(cfg.OutboxWorkers, cfg.RemoteTimeout)
	if err != nil {
		log.Fatal(err)
	}

	opts := gateway.Options{
		Cache:           cache.New(backend),
		Remote:          store,
		Outbox:          outbox,
		Seed:            catalog.Seed(),
		PlaceID:         cfg.ReviewsPlaceID,
		ReviewMaxLength: cfg.ReviewsMaxLength,
	}
	if cfg.ReviewsAPIKey != "" {
		opts.Reviews = reviews.New(cfg.ReviewsAPIKey)
	}
	gw := gateway.New(opts)

	// Local state is served immediately; the remote read finishes in the
	// background and admin writes wait for it.
	gw.LoadLocal()
	bootCtx, cancelBoot := context.WithCancel(context.Background())
	defer cancelBoot()
	go gw.LoadRemote(bootCtx)

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := services.NewAuthService(userRepo, cfg.SessionIdle)
	if n, err := authSvc.PruneSessions(); err != nil {
		applog.Error(nil, "auth.sessions.prune_fail", err, nil)
	} else if n > 0 {
		applog.Info(nil, "auth.sessions.pruned", map[string]any{"count": n})
	}

	var pay payments.Checkout = payments.NewHTTPCheckout(cfg.CheckoutURL)

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(cfg.Env == "development")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
			}
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates and logs)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/static/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		// API clients echo the cookie in a header; the login form posts it.
		Extractor: func(c *fiber.Ctx) (string, error) {
			if tok := c.Get("X-Csrf-Token"); tok != "" {
				return tok, nil
			}
			if tok := c.FormValue("csrf"); tok != "" {
				return tok, nil
			}
			return "", errMissingCSRF
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "security check failed, refresh and retry"})
			}
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	app.Static("/static", "./web/static")

	// ---------- App handlers ----------
	handlers.Register(app, handlers.NewDeps(gw, db, pay, authSvc))

	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		cancelBoot()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			applog.Error(nil, "server.shutdown", err, nil)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Print(err)
	}
	// queued remote writes still go out before exit
	outbox.Close()
	applog.Info(nil, "server.stopped", map[string]any{"failures": len(outbox.Failures())})
}
