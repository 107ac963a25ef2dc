package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"gymsite/internal/cache"
	"gymsite/internal/catalog"
	"gymsite/internal/gateway"
	"gymsite/internal/http/handlers"
	"gymsite/internal/payments"
	"gymsite/internal/repos"
	"gymsite/internal/services"
)

type fakePay struct {
	mu  sync.Mutex
	got []payments.Request
	err error
}

func (f *fakePay) Start(_ context.Context, r payments.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, r)
	if f.err != nil {
		return "", f.err
	}
	return "https://pay.example/c/" + r.CheckoutID, nil
}

type testEnv struct {
	app    *fiber.App
	db     *sqlx.DB
	gw     *gateway.Gateway
	users  *repos.UserRepo
	pay    *fakePay
	outbox *gateway.Outbox
	remote *repos.RecordRepo
}

type envOpts struct {
	withRemote bool // sqlite-backed record store behind the outbox
	skipLoad   bool // leave entities waiting on the remote
}

// newEnv builds the real route table over an in-memory database, a memory
// cache and, optionally, a sqlite record store standing in for the remote.
func newEnv(t *testing.T, o envOpts) *testEnv {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := repos.SeedAdmin(db, "admin@gym.test", ""); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO users(id,email,name,password_hash,role) VALUES('u-member','member@gym.test','Member','x','USER')`); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	env := &testEnv{db: db, users: repos.NewUserRepo(db), pay: &fakePay{}}
	opts := gateway.Options{Cache: cache.New(cache.NewMemory()), Seed: catalog.Seed()}
	if o.withRemote {
		rdb, err := repos.OpenRecordDB("sqlite", ":memory:")
		if err != nil {
			t.Fatalf("open record db: %v", err)
		}
		t.Cleanup(func() { rdb.Close() })
		ob, err := gateway.NewOutbox(2, time.Second)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(ob.Close)
		env.remote = repos.NewRecordRepo(rdb)
		env.outbox = ob
		opts.Remote = env.remote
		opts.Outbox = ob
	}
	env.gw = gateway.New(opts)
	env.gw.LoadLocal()
	if !o.skipLoad {
		env.gw.LoadRemote(context.Background())
	}

	authSvc := &services.AuthService{Users: env.users}
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	handlers.Register(app, handlers.NewDeps(env.gw, db, env.pay, authSvc))
	env.app = app
	return env
}

func (e *testEnv) adminSID(t *testing.T) string {
	t.Helper()
	if err := e.users.BindSession("sid-admin", "u-admin"); err != nil {
		t.Fatalf("bind admin: %v", err)
	}
	return "sid-admin"
}

// do sends a JSON request with the given session cookie and decodes the
// response into out when out is non-nil.
func (e *testEnv) do(t *testing.T, method, path, sid string, body any, out any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	buf.mu.Lock()
	defer buf.mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func hasAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
