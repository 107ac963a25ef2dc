package services

import (
	"errors"
	"sync"

	"gymsite/internal/cart"
	"gymsite/internal/domain"
	"gymsite/internal/gateway"
)

var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrOutOfStock     = errors.New("size out of stock")
)

// CartService applies cart operations to the session's stored cart. Each
// session's operations are applied in arrival order.
type CartService struct {
	GW  *gateway.Gateway
	Inv *InventoryService

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock lives only while some request holds or waits for it.
type sessionLock struct {
	sync.Mutex
	refs int
}

func NewCartService(gw *gateway.Gateway, inv *InventoryService) *CartService {
	return &CartService{GW: gw, Inv: inv, locks: map[string]*sessionLock{}}
}

func (s *CartService) lock(sid string) func() {
	s.mu.Lock()
	l, ok := s.locks[sid]
	if !ok {
		l = &sessionLock{}
		s.locks[sid] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, sid)
		}
		s.mu.Unlock()
	}
}

// LiveLocks reports how many sessions currently hold or wait for a cart lock.
func (s *CartService) LiveLocks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

type CartView struct {
	Items domain.Cart `json:"items"`
	Total float64     `json:"total"`
	Count int         `json:"count"`
}

func view(c domain.Cart) CartView {
	if c == nil {
		c = domain.Cart{}
	}
	return CartView{Items: c, Total: cart.Total(c), Count: cart.Count(c)}
}

func (s *CartService) View(sessionID string) CartView {
	return view(s.GW.LoadCart(sessionID))
}

// Add puts one unit of productID in size into the cart, using the current
// catalog entry as the line's snapshot.
func (s *CartService) Add(sessionID, productID, size string) (CartView, error) {
	p, ok := s.GW.Product(productID)
	if !ok {
		return CartView{}, ErrUnknownProduct
	}
	if s.Inv != nil && s.Inv.Availability(p, size).Status == StatusOutOfStock {
		return CartView{}, ErrOutOfStock
	}
	defer s.lock(sessionID)()
	c := cart.Add(s.GW.LoadCart(sessionID), p, size)
	s.GW.SaveCart(sessionID, c)
	return view(c), nil
}

// Update changes a line's quantity by delta; lines reaching zero are removed.
func (s *CartService) Update(sessionID, cartID string, delta int) CartView {
	defer s.lock(sessionID)()
	c := cart.UpdateQuantity(s.GW.LoadCart(sessionID), cartID, delta)
	s.GW.SaveCart(sessionID, c)
	return view(c)
}

func (s *CartService) Remove(sessionID, cartID string) CartView {
	defer s.lock(sessionID)()
	c := cart.Remove(s.GW.LoadCart(sessionID), cartID)
	s.GW.SaveCart(sessionID, c)
	return view(c)
}

func (s *CartService) Clear(sessionID string) {
	defer s.lock(sessionID)()
	s.GW.SaveCart(sessionID, nil)
}
