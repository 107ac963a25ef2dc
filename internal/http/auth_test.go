package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	html "github.com/gofiber/template/html/v2"
	"golang.org/x/crypto/bcrypt"

	"gymsite/internal/http/handlers"
	"gymsite/internal/repos"
	"gymsite/internal/services"
)

// seeded admin passwords are stored as bcrypt hashes
func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := repos.SeedAdmin(db, "admin@gym.test", ""); err != nil {
		t.Fatal(err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) != 1 {
		t.Fatalf("want one seeded admin, got %d", len(hashes))
	}
	h := hashes[0]
	if strings.Contains(h, "Passw0rd!") || !strings.HasPrefix(h, "$2") {
		t.Fatalf("unexpected hash format: %s", h)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
		t.Fatalf("seed hash does not validate demo password: %v", err)
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := repos.SeedAdmin(db, "admin@gym.test", "Str0ng-enough"); err != nil {
		t.Fatal(err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)

	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := cookie(respLogin, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}
	post := func(form string) *http.Response {
		req := httptest.NewRequest("POST", "/login", strings.NewReader("csrf="+csrfTok+"&"+form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := post("email=admin@gym.test&password=wrongpass!"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}
	resp := post("email=admin@gym.test&password=Str0ng-enough")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", resp.StatusCode)
	}
	if cookie(resp, "sid") == "" {
		t.Fatal("login did not issue a session")
	}
	if resp := post("email=admin@gym.test&password=wrongpass!"); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestLoginWithoutCSRFRejected(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	authH := &handlers.AuthHandler{Auth: &services.AuthService{Users: repos.NewUserRepo(db)}}
	app := fiber.New(fiber.Config{Views: html.New("../../web/templates", ".html")})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Post("/login", authH.Login)

	req := httptest.NewRequest("POST", "/login", strings.NewReader("email=admin@gym.test&password=Passw0rd!"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("want 403 without token, got %d", resp.StatusCode)
	}
}
