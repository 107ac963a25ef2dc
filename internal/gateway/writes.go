package gateway

import (
	"context"
	"errors"
	"fmt"

	"gymsite/internal/cache"
	"gymsite/internal/catalog"
	"gymsite/internal/domain"
	applog "gymsite/internal/log"
	"gymsite/internal/remote"
)

var ErrNotFound = errors.New("gateway: not found")

// Reads return copies; callers may modify them freely.

func (g *Gateway) Settings() domain.Settings {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.settings
}

func (g *Gateway) Home() domain.HomeContent {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.home
}

func (g *Gateway) Products() []domain.Product {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.Product(nil), g.products...)
}

func (g *Gateway) Product(id string) (domain.Product, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return catalog.ByID(g.products, id)
}

// Testimonials returns site testimonials followed by any external reviews
// not already listed.
func (g *Gateway) Testimonials() []domain.Testimonial {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return MergeReviews(g.testimonials, g.external)
}

// SaveSettings replaces the settings record.
func (g *Gateway) SaveSettings(s domain.Settings) domain.Settings {
	s.ID = domain.SettingsID
	g.mu.Lock()
	g.settings = s
	g.cache.Set(KeySettings, s)
	g.mu.Unlock()
	g.upsert(remote.TableSettings, s.ID, s)
	return s
}

func (g *Gateway) SaveHome(h domain.HomeContent) domain.HomeContent {
	h.ID = domain.HomeContentID
	g.mu.Lock()
	g.home = h
	g.cache.Set(KeyHomeContent, h)
	g.mu.Unlock()
	g.upsert(remote.TableHomeContent, h.ID, h)
	return h
}

// SaveProduct creates or replaces one product by id.
func (g *Gateway) SaveProduct(p domain.Product) domain.Product {
	g.mu.Lock()
	g.products = catalog.Upsert(g.products, p)
	g.cache.Set(KeyProducts, g.products)
	g.mu.Unlock()
	g.upsert(remote.TableProducts, p.ID, p)
	return p
}

// SaveProducts applies a bulk edit. The cache is written once; each product
// is upserted to the remote independently.
func (g *Gateway) SaveProducts(ps []domain.Product) {
	if len(ps) == 0 {
		return
	}
	g.mu.Lock()
	for _, p := range ps {
		g.products = catalog.Upsert(g.products, p)
	}
	g.cache.Set(KeyProducts, g.products)
	g.mu.Unlock()
	for _, p := range ps {
		g.upsert(remote.TableProducts, p.ID, p)
	}
}

func (g *Gateway) DeleteProduct(id string) error {
	g.mu.Lock()
	next := catalog.Delete(g.products, id)
	if len(next) == len(g.products) {
		g.mu.Unlock()
		return ErrNotFound
	}
	g.products = next
	g.cache.Set(KeyProducts, next)
	g.mu.Unlock()
	g.delete(remote.TableProducts, id)
	return nil
}

func (g *Gateway) SaveTestimonial(t domain.Testimonial) domain.Testimonial {
	if t.Source == "" {
		t.Source = domain.SourceSite
	}
	g.mu.Lock()
	replaced := false
	for i := range g.testimonials {
		if g.testimonials[i].ID == t.ID {
			next := append([]domain.Testimonial(nil), g.testimonials...)
			next[i] = t
			g.testimonials = next
			replaced = true
			break
		}
	}
	if !replaced {
		g.testimonials = append(append([]domain.Testimonial(nil), g.testimonials...), t)
	}
	g.cache.Set(KeyTestimonials, g.testimonials)
	g.mu.Unlock()
	g.upsert(remote.TableTestimonials, t.ID, t)
	return t
}

func (g *Gateway) DeleteTestimonial(id string) error {
	g.mu.Lock()
	next := make([]domain.Testimonial, 0, len(g.testimonials))
	for _, t := range g.testimonials {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) == len(g.testimonials) {
		g.mu.Unlock()
		return ErrNotFound
	}
	g.testimonials = next
	g.cache.Set(KeyTestimonials, next)
	g.mu.Unlock()
	g.delete(remote.TableTestimonials, id)
	return nil
}

// LoadCart returns the session's cart, empty when none is stored.
func (g *Gateway) LoadCart(sessionID string) domain.Cart {
	return cache.Get(g.cache, CartKey(sessionID), domain.Cart{})
}

// SaveCart persists the cart locally. Carts never reach the remote store.
func (g *Gateway) SaveCart(sessionID string, c domain.Cart) {
	if len(c) == 0 {
		g.cache.Del(CartKey(sessionID))
		return
	}
	g.cache.Set(CartKey(sessionID), c)
}

func (g *Gateway) upsert(table, id string, v any) {
	if g.remote == nil {
		return
	}
	rec, err := remote.Encode(v)
	if err != nil {
		applog.Error(nil, "gateway.encode.fail", err, map[string]any{"table": table, "id": id})
		return
	}
	store := g.remote
	g.outbox.Submit(Task{Op: "upsert", Table: table, ID: id, Run: func(ctx context.Context) error {
		if err := store.Upsert(ctx, table, rec, "id"); err != nil {
			return fmt.Errorf("upsert %s/%s: %w", table, id, err)
		}
		return nil
	}})
}

func (g *Gateway) delete(table, id string) {
	if g.remote == nil {
		return
	}
	store := g.remote
	g.outbox.Submit(Task{Op: "delete", Table: table, ID: id, Run: func(ctx context.Context) error {
		if err := store.Delete(ctx, table, remote.ByID(id)); err != nil {
			return fmt.Errorf("delete %s/%s: %w", table, id, err)
		}
		return nil
	}})
}
