package catalog

import "gymsite/internal/domain"

// SyncFromSeed appends seed products whose ids are missing from current.
// It never drops or rewrites an existing entry, so admin edits and deletions
// of seed products survive. When nothing is missing, current itself is
// returned so callers can skip persisting.
func SyncFromSeed(current, seed []domain.Product) []domain.Product {
	have := make(map[string]struct{}, len(current))
	for _, p := range current {
		have[p.ID] = struct{}{}
	}
	var missing []domain.Product
	for _, p := range seed {
		if _, ok := have[p.ID]; ok {
			continue
		}
		have[p.ID] = struct{}{}
		missing = append(missing, p)
	}
	if len(missing) == 0 {
		return current
	}
	out := make([]domain.Product, 0, len(current)+len(missing))
	out = append(out, current...)
	return append(out, missing...)
}

// ByID returns the product with id.
func ByID(products []domain.Product, id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Upsert replaces the product with the same id, or appends it.
func Upsert(products []domain.Product, p domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products)+1)
	replaced := false
	for _, cur := range products {
		if cur.ID == p.ID {
			out = append(out, p)
			replaced = true
			continue
		}
		out = append(out, cur)
	}
	if !replaced {
		out = append(out, p)
	}
	return out
}

// Delete removes the product with id. Unknown ids are a no-op.
func Delete(products []domain.Product, id string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// Filter keeps products in category (any when empty), optionally featured only.
func Filter(products []domain.Product, category string, featuredOnly bool) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if featuredOnly && !p.Featured {
			continue
		}
		out = append(out, p)
	}
	return out
}
