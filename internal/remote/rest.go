package remote

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// REST talks to a PostgREST endpoint (the hosted Postgres API). Filters are
// sent as `col=eq.value` query parameters.
type REST struct {
	BaseURL string // e.g. https://xyz.example.co
	APIKey  string
	Timeout time.Duration
}

func NewREST(baseURL, apiKey string, timeout time.Duration) *REST {
	return &REST{BaseURL: strings.TrimRight(baseURL, "/"), APIKey: apiKey, Timeout: timeout}
}

func (s *REST) endpoint(table string, f Filter, extra url.Values) string {
	q := url.Values{}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, "eq."+fmt.Sprint(f[k]))
	}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u := s.BaseURL + "/rest/v1/" + url.PathEscape(table)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func (s *REST) prepare(ctx context.Context, a *fiber.Agent) *fiber.Agent {
	a.Set("apikey", s.APIKey)
	a.Set(fiber.HeaderAuthorization, "Bearer "+s.APIKey)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	timeout := s.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}
	return a
}

// do runs the request and maps transport and status failures to errors.
func (s *REST) do(ctx context.Context, a *fiber.Agent, table, op string, out any) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return err
	}
	code, body, errs := s.prepare(ctx, a).Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("remote %s %s: %w", op, table, errs[0])
	}
	if code < 200 || code > 299 {
		return &StatusError{Op: op, Table: table, Code: code, Body: string(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("remote %s %s: decode: %w", op, table, err)
	}
	return nil
}

func (s *REST) Select(ctx context.Context, table string, f Filter) ([]Record, error) {
	a := fiber.Get(s.endpoint(table, f, url.Values{"select": {"*"}}))
	var rows []Record
	if err := s.do(ctx, a, table, "select", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *REST) Insert(ctx context.Context, table string, r Record) (Record, error) {
	a := fiber.Post(s.endpoint(table, nil, nil)).JSON(r)
	a.Set("Prefer", "return=representation")
	var rows []Record
	if err := s.do(ctx, a, table, "insert", &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return r, nil
	}
	return rows[0], nil
}

func (s *REST) Update(ctx context.Context, table string, f Filter, patch Record) error {
	a := fiber.Patch(s.endpoint(table, f, nil)).JSON(patch)
	a.Set("Prefer", "return=minimal")
	return s.do(ctx, a, table, "update", nil)
}

func (s *REST) Upsert(ctx context.Context, table string, r Record, conflictKey string) error {
	if conflictKey == "" {
		conflictKey = "id"
	}
	a := fiber.Post(s.endpoint(table, nil, url.Values{"on_conflict": {conflictKey}})).JSON(r)
	a.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	return s.do(ctx, a, table, "upsert", nil)
}

func (s *REST) Delete(ctx context.Context, table string, f Filter) error {
	if len(f) == 0 {
		// PostgREST refuses unfiltered deletes; so do we.
		return fmt.Errorf("remote delete %s: refusing unfiltered delete", table)
	}
	a := fiber.Delete(s.endpoint(table, f, nil))
	return s.do(ctx, a, table, "delete", nil)
}

// StatusError is a non-2xx answer from the store, e.g. a row-level security
// rejection (401/403).
type StatusError struct {
	Op, Table string
	Code      int
	Body      string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote %s %s: status %d: %s", e.Op, e.Table, e.Code, e.Body)
}

// Denied reports whether the store rejected the caller's credentials.
func (e *StatusError) Denied() bool { return e.Code == 401 || e.Code == 403 }
