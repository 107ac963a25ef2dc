package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gymsite/internal/domain"
	"gymsite/internal/remote"
)

type seen struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

func fakePostgREST(t *testing.T, status int, reply string) (*remote.REST, <-chan seen) {
	t.Helper()
	ch := make(chan seen, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ch <- seen{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Header: r.Header.Clone(), Body: string(b)}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return remote.NewREST(srv.URL+"/", "anon-key", 2*time.Second), ch
}

func TestRESTSelect(t *testing.T) {
	s, ch := fakePostgREST(t, 200, `[{"id":"m1","title":"Tee","price":29.99,"inventory":{"L":3}}]`)
	rows, err := s.Select(context.Background(), remote.TableProducts, remote.ByID("m1"))
	if err != nil {
		t.Fatal(err)
	}
	req := <-ch
	if req.Method != http.MethodGet || req.Path != "/rest/v1/products" {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}
	if req.Query.Get("id") != "eq.m1" || req.Query.Get("select") != "*" {
		t.Fatalf("bad query: %v", req.Query)
	}
	if req.Header.Get("apikey") != "anon-key" || req.Header.Get("Authorization") != "Bearer anon-key" {
		t.Fatalf("credentials not sent: %v", req.Header)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	var p domain.Product
	if err := remote.Decode(rows[0], &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != "m1" || p.Price != 29.99 || p.Inventory["L"] != 3 {
		t.Fatalf("decoded %+v", p)
	}
}

func TestRESTUpsert(t *testing.T) {
	s, ch := fakePostgREST(t, 201, ``)
	rec, _ := remote.Encode(domain.Testimonial{ID: "t1", Name: "Sam", Quote: "Great coaches"})
	if err := s.Upsert(context.Background(), remote.TableTestimonials, rec, "id"); err != nil {
		t.Fatal(err)
	}
	req := <-ch
	if req.Method != http.MethodPost || req.Query.Get("on_conflict") != "id" {
		t.Fatalf("unexpected request %s %v", req.Method, req.Query)
	}
	if !strings.Contains(req.Header.Get("Prefer"), "merge-duplicates") {
		t.Fatalf("missing upsert preference: %q", req.Header.Get("Prefer"))
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		t.Fatalf("body not json: %q", req.Body)
	}
	if body["id"] != "t1" || body["quote"] != "Great coaches" {
		t.Fatalf("body %v", body)
	}
}

func TestRESTUpdateAndDelete(t *testing.T) {
	s, ch := fakePostgREST(t, 204, ``)
	ctx := context.Background()
	if err := s.Update(ctx, remote.TableSettings, remote.ByID("main"), remote.Record{"phone": "1"}); err != nil {
		t.Fatal(err)
	}
	if req := <-ch; req.Method != http.MethodPatch || req.Query.Get("id") != "eq.main" {
		t.Fatalf("update sent %s %v", req.Method, req.Query)
	}
	if err := s.Delete(ctx, remote.TableProducts, remote.ByID("m2")); err != nil {
		t.Fatal(err)
	}
	if req := <-ch; req.Method != http.MethodDelete || req.Query.Get("id") != "eq.m2" {
		t.Fatalf("delete sent %s %v", req.Method, req.Query)
	}
	if err := s.Delete(ctx, remote.TableProducts, nil); err == nil {
		t.Fatal("unfiltered delete must be refused")
	}
}

func TestRESTInsertReturnsRepresentation(t *testing.T) {
	s, ch := fakePostgREST(t, 201, `[{"id":"t9","name":"Ana"}]`)
	row, err := s.Insert(context.Background(), remote.TableTestimonials, remote.Record{"name": "Ana"})
	if err != nil {
		t.Fatal(err)
	}
	if req := <-ch; req.Header.Get("Prefer") != "return=representation" {
		t.Fatalf("prefer header %q", req.Header.Get("Prefer"))
	}
	if row["id"] != "t9" {
		t.Fatalf("got %v", row)
	}
}

func TestRESTDenied(t *testing.T) {
	s, _ := fakePostgREST(t, 403, `{"message":"new row violates row-level security policy"}`)
	err := s.Upsert(context.Background(), remote.TableProducts, remote.Record{"id": "x"}, "")
	var se *remote.StatusError
	if !errors.As(err, &se) || !se.Denied() {
		t.Fatalf("want denied StatusError, got %v", err)
	}
}

func TestRESTUnreachable(t *testing.T) {
	s := remote.NewREST("http://127.0.0.1:1", "k", 500*time.Millisecond)
	if _, err := s.Select(context.Background(), remote.TableProducts, nil); err == nil {
		t.Fatal("want error for unreachable store")
	}
}

func TestFilterMatch(t *testing.T) {
	r := remote.Record{"id": "m1", "price": 10.0, "featured": true}
	if !remote.ByID("m1").Match(r) || remote.ByID("m2").Match(r) {
		t.Fatal("id filter")
	}
	if !(remote.Filter{"price": 10, "featured": true}).Match(r) {
		t.Fatal("numeric/bool filter")
	}
	if !(remote.Filter{}).Match(r) {
		t.Fatal("empty filter matches all")
	}
}

func TestDecodeAllSkipsBadRows(t *testing.T) {
	rows := []remote.Record{
		{"id": "m1", "price": 5.0},
		{"id": "m2", "price": map[string]any{"oops": true}},
	}
	ps, skipped := remote.DecodeAll[domain.Product](rows)
	if len(ps) != 1 || skipped != 1 || ps[0].ID != "m1" {
		t.Fatalf("got %+v skipped=%d", ps, skipped)
	}
}
