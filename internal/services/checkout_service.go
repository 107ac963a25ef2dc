package services

import (
	"context"

	"github.com/google/uuid"

	"gymsite/internal/cart"
	applog "gymsite/internal/log"
	"gymsite/internal/payments"
	"gymsite/internal/repos"
)

type CheckoutService struct {
	Carts     *CartService
	Payments  payments.Checkout
	Checkouts *repos.CheckoutRepo
}

func NewCheckoutService(carts *CartService, pay payments.Checkout, checkouts *repos.CheckoutRepo) *CheckoutService {
	return &CheckoutService{Carts: carts, Payments: pay, Checkouts: checkouts}
}

// Start records the session's cart as a checkout and asks the payment
// gateway for a redirect URL. The cart is kept until payment completes.
func (s *CheckoutService) Start(ctx context.Context, sessionID, membership string) (string, error) {
	if !payments.ValidMembership(membership) {
		return "", payments.ErrBadMembership
	}
	c := s.Carts.GW.LoadCart(sessionID)
	if len(c) == 0 && membership == payments.MembershipNone {
		return "", payments.ErrEmptyCart
	}
	total := cart.Total(c)

	id := uuid.NewString()
	if err := s.Checkouts.Create(id, sessionID, membership, total); err != nil {
		return "", err
	}
	for _, it := range c {
		row := repos.CheckoutItemRow{CartID: it.CartID, Title: it.Title, Size: it.SelectedSize, Qty: it.Quantity, Price: it.Price}
		if err := s.Checkouts.InsertItem(id, row); err != nil {
			return "", err
		}
	}

	url, err := s.Payments.Start(ctx, payments.Request{CheckoutID: id, Total: total, MembershipType: membership})
	if err != nil {
		if ferr := s.Checkouts.Finish(id, "FAILED", ""); ferr != nil {
			applog.Error(nil, "checkout.finish.fail", ferr, map[string]any{"checkout_id": id, "status": "FAILED"})
		}
		return "", err
	}
	if err := s.Checkouts.Finish(id, "REDIRECTED", url); err != nil {
		return "", err
	}
	return url, nil
}
