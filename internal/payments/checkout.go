// Package payments hands a finished cart to the hosted payment page. The
// gateway is opaque: it takes an amount and a membership type and answers
// with the URL the shopper is redirected to.
package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrBadMembership = errors.New("unknown membership type")
	ErrNotConfigured = errors.New("checkout not configured")
	ErrNoRedirectURL = errors.New("payment gateway returned no redirect url")
)

const (
	MembershipNone    = "none"
	MembershipMonthly = "monthly"
	MembershipAnnual  = "annual"
)

// ValidMembership reports whether m is a known membership type.
func ValidMembership(m string) bool {
	switch m {
	case MembershipNone, MembershipMonthly, MembershipAnnual:
		return true
	}
	return false
}

type Request struct {
	CheckoutID     string  `json:"checkout_id"`
	Total          float64 `json:"total"`
	MembershipType string  `json:"membership_type"`
}

type Checkout interface {
	Start(ctx context.Context, req Request) (redirectURL string, err error)
}

// HTTPCheckout posts the request as JSON to a checkout function and expects
// {"url": "..."} back.
type HTTPCheckout struct {
	URL     string
	Timeout time.Duration
}

func NewHTTPCheckout(url string) *HTTPCheckout {
	return &HTTPCheckout{URL: url, Timeout: 15 * time.Second}
}

func (h *HTTPCheckout) Start(ctx context.Context, req Request) (string, error) {
	if h == nil || h.URL == "" {
		return "", ErrNotConfigured
	}
	if !ValidMembership(req.MembershipType) {
		return "", ErrBadMembership
	}
	if req.Total <= 0 && req.MembershipType == MembershipNone {
		return "", ErrEmptyCart
	}
	a := fiber.Post(h.URL).JSON(req)
	if h.Timeout > 0 {
		a.Timeout(h.Timeout)
	}
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return "", err
	}
	var out struct {
		URL   string `json:"url"`
		Error string `json:"error"`
	}
	code, _, errs := a.Struct(&out)
	if len(errs) > 0 {
		return "", fmt.Errorf("checkout: %w", errs[0])
	}
	if code < 200 || code > 299 {
		return "", fmt.Errorf("checkout: status %d: %s", code, out.Error)
	}
	if out.URL == "" {
		return "", ErrNoRedirectURL
	}
	return out.URL, nil
}
