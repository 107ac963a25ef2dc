// Package gateway owns the site's content state. It decides at start-up
// whether the local cache or the remote store is authoritative for each
// entity, and fans every admin write out to the cache (synchronously) and the
// remote store (through the outbox).
package gateway

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"gymsite/internal/cache"
	"gymsite/internal/catalog"
	"gymsite/internal/domain"
	applog "gymsite/internal/log"
	"gymsite/internal/remote"
)

// ReviewSource fetches third-party reviews. It must not fail.
type ReviewSource interface {
	Fetch(ctx context.Context, placeID string, maxLength int) []domain.Testimonial
}

type Options struct {
	Cache  *cache.Cache
	Remote remote.Store // nil when no remote store is configured
	Outbox *Outbox      // required when Remote is set
	Seed   []domain.Product

	Reviews         ReviewSource
	PlaceID         string // overrides the place id in settings
	ReviewMaxLength int
}

type Gateway struct {
	cache     *cache.Cache
	remote    remote.Store
	outbox    *Outbox
	seed      []domain.Product
	reviews   ReviewSource
	placeID   string
	reviewMax int

	mu           sync.RWMutex
	settings     domain.Settings
	home         domain.HomeContent
	products     []domain.Product
	testimonials []domain.Testimonial
	external     []domain.Testimonial
	loads        map[Entity]LoadState
	seeded       bool
}

func New(opts Options) *Gateway {
	g := &Gateway{
		cache:     opts.Cache,
		remote:    opts.Remote,
		outbox:    opts.Outbox,
		seed:      opts.Seed,
		reviews:   opts.Reviews,
		placeID:   opts.PlaceID,
		reviewMax: opts.ReviewMaxLength,
		settings:  domain.DefaultSettings(),
		home:      domain.DefaultHomeContent(),
		loads:     map[Entity]LoadState{},
	}
	for _, e := range entities {
		g.loads[e] = Uninitialized
	}
	return g
}

// Bootstrap loads local state, then the remote store and reviews. It
// returns once both phases are done.
func (g *Gateway) Bootstrap(ctx context.Context) {
	g.LoadLocal()
	g.LoadRemote(ctx)
}

// LoadLocal reads every entity from the local cache. The seed catalog is
// merged into the cached products here, once per gateway.
func (g *Gateway) LoadLocal() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range entities {
		g.loads[e] = LoadingLocal
	}

	g.settings = cache.Get(g.cache, KeySettings, domain.DefaultSettings())
	g.home = cache.Get(g.cache, KeyHomeContent, domain.DefaultHomeContent())
	g.testimonials = cache.Get[[]domain.Testimonial](g.cache, KeyTestimonials, nil)

	local := cache.Get[[]domain.Product](g.cache, KeyProducts, nil)
	if !g.seeded {
		merged := catalog.SyncFromSeed(local, g.seed)
		g.seeded = true
		if len(merged) != len(local) {
			applog.Info(nil, "gateway.products.seed_merge", map[string]any{"added": len(merged) - len(local)})
			g.cache.Set(KeyProducts, merged)
		}
		local = merged
	}
	g.products = local

	next := LocalOnly
	if g.remote != nil {
		next = AwaitingRemote
	}
	for _, e := range entities {
		g.loads[e] = next
	}
}

type remoteResult struct {
	rows []remote.Record
	err  error
}

// LoadRemote reads the four tables concurrently and applies the
// source-of-truth policy per entity. External reviews are fetched last
// since the place id may come from remote settings.
func (g *Gateway) LoadRemote(ctx context.Context) {
	if g.remote != nil {
		tables := map[Entity]string{
			EntityProducts:     remote.TableProducts,
			EntitySettings:     remote.TableSettings,
			EntityHomeContent:  remote.TableHomeContent,
			EntityTestimonials: remote.TableTestimonials,
		}
		results := make(map[Entity]*remoteResult, len(tables))
		var eg errgroup.Group
		for e, table := range tables {
			table := table
			res := &remoteResult{}
			results[e] = res
			eg.Go(func() error {
				res.rows, res.err = g.remote.Select(ctx, table, nil)
				return nil
			})
		}
		_ = eg.Wait()

		g.mu.Lock()
		g.applyProducts(results[EntityProducts])
		g.applySettings(results[EntitySettings])
		g.applyHome(results[EntityHomeContent])
		g.applyTestimonials(results[EntityTestimonials])
		g.mu.Unlock()
	}
	g.loadReviews(ctx)
}

func (g *Gateway) failed(e Entity, err error) {
	g.loads[e] = RemoteFailed
	applog.Warn(nil, "gateway."+string(e)+".remote_failed", err, nil)
}

// applyProducts: a reachable remote replaces the local catalog, even when
// empty, so deletions made elsewhere stick. The seed merge is not re-run.
func (g *Gateway) applyProducts(res *remoteResult) {
	if res.err != nil {
		g.failed(EntityProducts, res.err)
		return
	}
	ps, skipped := remote.DecodeAll[domain.Product](res.rows)
	if skipped > 0 {
		applog.Warn(nil, "gateway.products.decode_skipped", nil, map[string]any{"skipped": skipped})
	}
	g.products = ps
	g.cache.Set(KeyProducts, ps)
	g.loads[EntityProducts] = RemoteLoaded
	applog.Info(nil, "gateway.products.remote_loaded", map[string]any{"count": len(ps)})
}

// applySettings keeps a locally customized record over the remote one; a
// cached value equal to the defaults counts as never edited.
func (g *Gateway) applySettings(res *remoteResult) {
	if res.err != nil {
		g.failed(EntitySettings, res.err)
		return
	}
	g.loads[EntitySettings] = RemoteLoaded
	cached := cache.Get(g.cache, KeySettings, domain.DefaultSettings())
	if cached != domain.DefaultSettings() {
		applog.Info(nil, "gateway.settings.local_kept", nil)
		return
	}
	if len(res.rows) == 0 {
		return
	}
	var s domain.Settings
	if err := remote.Decode(res.rows[0], &s); err != nil {
		applog.Warn(nil, "gateway.settings.decode_fail", err, nil)
		return
	}
	g.settings = s
	g.cache.Set(KeySettings, s)
}

// applyHome uses the default headline as the "never edited" marker.
func (g *Gateway) applyHome(res *remoteResult) {
	if res.err != nil {
		g.failed(EntityHomeContent, res.err)
		return
	}
	g.loads[EntityHomeContent] = RemoteLoaded
	cached := cache.Get(g.cache, KeyHomeContent, domain.DefaultHomeContent())
	if cached.Headline != domain.DefaultHeadline {
		applog.Info(nil, "gateway.home_content.local_kept", nil)
		return
	}
	if len(res.rows) == 0 {
		return
	}
	var h domain.HomeContent
	if err := remote.Decode(res.rows[0], &h); err != nil {
		applog.Warn(nil, "gateway.home_content.decode_fail", err, nil)
		return
	}
	g.home = h
	g.cache.Set(KeyHomeContent, h)
}

// applyTestimonials: remote wins only when it has rows.
func (g *Gateway) applyTestimonials(res *remoteResult) {
	if res.err != nil {
		g.failed(EntityTestimonials, res.err)
		return
	}
	g.loads[EntityTestimonials] = RemoteLoaded
	ts, _ := remote.DecodeAll[domain.Testimonial](res.rows)
	if len(ts) == 0 {
		return
	}
	g.testimonials = ts
	g.cache.Set(KeyTestimonials, ts)
}

func (g *Gateway) loadReviews(ctx context.Context) {
	if g.reviews == nil {
		return
	}
	g.mu.RLock()
	placeID := g.placeID
	if placeID == "" {
		placeID = g.settings.GooglePlaceID
	}
	g.mu.RUnlock()
	if placeID == "" {
		return
	}
	got := g.reviews.Fetch(ctx, placeID, g.reviewMax)
	g.mu.Lock()
	g.external = got
	g.mu.Unlock()
	applog.Info(nil, "gateway.reviews.loaded", map[string]any{"count": len(got)})
}

// MergeReviews appends external reviews whose id is not already present.
func MergeReviews(ts, external []domain.Testimonial) []domain.Testimonial {
	seen := make(map[string]struct{}, len(ts)+len(external))
	out := make([]domain.Testimonial, 0, len(ts)+len(external))
	for _, t := range ts {
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	for _, r := range external {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// LoadStates returns a snapshot of every entity's load state.
func (g *Gateway) LoadStates() map[Entity]LoadState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[Entity]LoadState, len(g.loads))
	for k, v := range g.loads {
		out[k] = v
	}
	return out
}

// Ready reports whether every entity has finished loading.
func (g *Gateway) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, s := range g.loads {
		if !s.Terminal() {
			return false
		}
	}
	return true
}

// RemoteConfigured reports whether writes are mirrored to a remote store.
func (g *Gateway) RemoteConfigured() bool { return g.remote != nil }

// Failures lists recent remote write failures.
func (g *Gateway) Failures() []Failure {
	if g.outbox == nil {
		return nil
	}
	return g.outbox.Failures()
}
