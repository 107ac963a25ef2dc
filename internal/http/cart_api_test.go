package handlers_test

import (
	"net/http"
	"testing"

	"gymsite/internal/services"
)

func TestCartAPIFlow(t *testing.T) {
	env := newEnv(t, envOpts{})

	var cv services.CartView
	resp := env.do(t, "POST", "/api/v1/cart", "", map[string]string{"productId": "m1", "size": "l"}, &cv)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: %d", resp.StatusCode)
	}
	sid := cookie(resp, "sid")
	if sid == "" {
		t.Fatal("session cookie not issued")
	}
	if len(cv.Items) != 1 || cv.Items[0].CartID != "m1-L" || cv.Items[0].Quantity != 1 {
		t.Fatalf("bad cart: %+v", cv)
	}

	env.do(t, "POST", "/api/v1/cart", sid, map[string]string{"productId": "m1", "size": "L"}, &cv)
	env.do(t, "POST", "/api/v1/cart", sid, map[string]string{"productId": "s1", "size": "OS"}, &cv)
	if len(cv.Items) != 2 || cv.Count != 3 || cv.Total != 74.48 {
		t.Fatalf("want 2 lines/3 units/74.48, got %+v", cv)
	}

	env.do(t, "PATCH", "/api/v1/cart/m1-L", sid, map[string]int{"delta": -2}, &cv)
	if len(cv.Items) != 1 || cv.Items[0].CartID != "s1-OS" {
		t.Fatalf("decrement to zero should drop the line: %+v", cv)
	}

	env.do(t, "DELETE", "/api/v1/cart/nope-XL", sid, nil, &cv)
	if len(cv.Items) != 1 {
		t.Fatalf("removing an absent line must be a no-op: %+v", cv)
	}
	env.do(t, "DELETE", "/api/v1/cart/s1-OS", sid, nil, &cv)
	if len(cv.Items) != 0 || cv.Total != 0 || cv.Count != 0 {
		t.Fatalf("cart should be empty: %+v", cv)
	}

	// carts are per session
	var other services.CartView
	env.do(t, "GET", "/api/v1/cart", "someone-else", nil, &other)
	if len(other.Items) != 0 {
		t.Fatalf("cart leaked across sessions: %+v", other)
	}
}

func TestCartAPIRejects(t *testing.T) {
	env := newEnv(t, envOpts{})
	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown product", "POST", "/api/v1/cart", map[string]string{"productId": "zz9", "size": "M"}, http.StatusNotFound},
		{"sold out size", "POST", "/api/v1/cart", map[string]string{"productId": "m3", "size": "M"}, http.StatusConflict},
		{"missing size", "POST", "/api/v1/cart", map[string]string{"productId": "m1"}, http.StatusBadRequest},
		{"injected id", "POST", "/api/v1/cart", map[string]string{"productId": "m1' OR 1=1", "size": "M"}, http.StatusBadRequest},
		{"zero delta", "PATCH", "/api/v1/cart/m1-M", map[string]int{"delta": 0}, http.StatusBadRequest},
		{"huge delta", "PATCH", "/api/v1/cart/m1-M", map[string]int{"delta": 500}, http.StatusBadRequest},
		{"bad cart id", "DELETE", "/api/v1/cart/%3Cscript%3E", nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, tc.method, tc.path, "sid-x", tc.body, nil)
			if resp.StatusCode != tc.want {
				t.Fatalf("want %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestCheckoutAPI(t *testing.T) {
	env := newEnv(t, envOpts{})

	resp := env.do(t, "POST", "/api/v1/checkout", "sid-c", map[string]string{"membershipType": "none"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty cart: want 400, got %d", resp.StatusCode)
	}
	resp = env.do(t, "POST", "/api/v1/checkout", "sid-c", map[string]string{"membershipType": "weekly"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad membership: want 400, got %d", resp.StatusCode)
	}

	env.do(t, "POST", "/api/v1/cart", "sid-c", map[string]string{"productId": "h1", "size": "M"}, nil)
	var out struct {
		URL string `json:"url"`
	}
	resp = env.do(t, "POST", "/api/v1/checkout", "sid-c", map[string]string{"membershipType": "annual"}, &out)
	if resp.StatusCode != http.StatusOK || out.URL == "" {
		t.Fatalf("checkout: %d %+v", resp.StatusCode, out)
	}
	if len(env.pay.got) != 1 || env.pay.got[0].Total != 54.99 || env.pay.got[0].MembershipType != "annual" {
		t.Fatalf("payment request: %+v", env.pay.got)
	}

	// membership alone is a valid purchase
	resp = env.do(t, "POST", "/api/v1/checkout", "sid-empty", map[string]string{"membershipType": "monthly"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("membership-only checkout: %d", resp.StatusCode)
	}
}
