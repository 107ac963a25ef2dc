package catalog_test

import (
	"testing"

	"gymsite/internal/catalog"
	"gymsite/internal/domain"
)

func ids(ps []domain.Product) map[string]domain.Product {
	m := map[string]domain.Product{}
	for _, p := range ps {
		m[p.ID] = p
	}
	return m
}

func TestSyncAddsMissingSeed(t *testing.T) {
	current := []domain.Product{{ID: "m1", Title: "Tee 1"}}
	seed := []domain.Product{{ID: "m1", Title: "Tee 1"}, {ID: "m2", Title: "Tee 2"}, {ID: "m3", Title: "Tee 3"}}
	out := catalog.SyncFromSeed(current, seed)
	if len(out) != 3 {
		t.Fatalf("want 3 products, got %d", len(out))
	}
	got := ids(out)
	for _, id := range []string{"m1", "m2", "m3"} {
		if _, ok := got[id]; !ok {
			t.Fatalf("missing %s in %+v", id, out)
		}
	}
	if out[0].ID != "m1" {
		t.Fatalf("existing entries should come first, got %+v", out)
	}
}

func TestSyncPreservesEdits(t *testing.T) {
	current := []domain.Product{{ID: "m1", Title: "Custom Title", Price: 39.99}}
	seed := []domain.Product{{ID: "m1", Title: "Tee 1", Price: 29.99}, {ID: "m2", Title: "Tee 2", Price: 29.99}}
	out := ids(catalog.SyncFromSeed(current, seed))
	if out["m1"].Title != "Custom Title" || out["m1"].Price != 39.99 {
		t.Fatalf("edit lost: %+v", out["m1"])
	}
	if out["m2"].Title != "Tee 2" || out["m2"].Price != 29.99 {
		t.Fatalf("seed entry wrong: %+v", out["m2"])
	}
}

func TestSyncNeverDeletes(t *testing.T) {
	current := []domain.Product{{ID: "custom-1"}, {ID: "m1"}}
	seed := []domain.Product{{ID: "m2"}}
	out := ids(catalog.SyncFromSeed(current, seed))
	for _, id := range []string{"custom-1", "m1", "m2"} {
		if _, ok := out[id]; !ok {
			t.Fatalf("%s missing after sync", id)
		}
	}
}

func TestSyncNoopReturnsSameSlice(t *testing.T) {
	current := []domain.Product{{ID: "m1"}, {ID: "m2"}}
	out := catalog.SyncFromSeed(current, []domain.Product{{ID: "m2"}, {ID: "m1"}})
	if len(out) != len(current) || &out[0] != &current[0] {
		t.Fatal("expected the input slice back when nothing is missing")
	}
	out = catalog.SyncFromSeed(current, nil)
	if len(out) != len(current) || &out[0] != &current[0] {
		t.Fatal("empty seed should return the input slice")
	}
}

func TestSyncEmptyCurrentTakesSeed(t *testing.T) {
	out := catalog.SyncFromSeed(nil, catalog.Seed())
	if len(out) != len(catalog.Seed()) {
		t.Fatalf("want full seed, got %d", len(out))
	}
}

// The merge cannot tell a deleted seed product from a new one. The gateway
// only runs it once per local load, never after a remote load.
func TestSyncRestoresAnyMissingSeedID(t *testing.T) {
	seed := catalog.Seed()
	current := catalog.Delete(catalog.SyncFromSeed(nil, seed), "m2")
	again := catalog.SyncFromSeed(current, seed)
	if _, ok := catalog.ByID(again, "m2"); !ok {
		t.Fatal("m2 should be appended again")
	}
	if len(again) != len(seed) {
		t.Fatalf("want %d, got %d", len(seed), len(again))
	}
}

func TestUpsertDeleteFilter(t *testing.T) {
	ps := catalog.Seed()
	ps = catalog.Upsert(ps, domain.Product{ID: "m1", Title: "Renamed", Category: "apparel"})
	if p, _ := catalog.ByID(ps, "m1"); p.Title != "Renamed" {
		t.Fatalf("upsert did not replace: %+v", p)
	}
	n := len(ps)
	ps = catalog.Upsert(ps, domain.Product{ID: "new", Category: "accessories", Featured: true})
	if len(ps) != n+1 {
		t.Fatal("upsert of a new id should append")
	}
	ps = catalog.Delete(ps, "ghost")
	if len(ps) != n+1 {
		t.Fatal("delete of unknown id should be a no-op")
	}
	if got := catalog.Filter(ps, "accessories", true); len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("filter: %+v", got)
	}
}
