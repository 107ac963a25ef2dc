// Package catalog holds the built-in seed catalog and the catalog merge rules.
package catalog

import "gymsite/internal/domain"

// Seed returns the merchandise shipped with the site. New entries added here
// are backfilled into existing local catalogs by SyncFromSeed.
func Seed() []domain.Product {
	apparelSizes := func(s, m, l, xl int) map[string]int {
		return map[string]int{"S": s, "M": m, "L": l, "XL": xl}
	}
	return []domain.Product{
		{
			ID: "m1", Title: "Tee 1", Price: 29.99, Category: "apparel",
			Image:       "/static/img/shop/tee-1.jpg",
			Description: "Heavyweight cotton tee with the front crest.",
			Inventory:   apparelSizes(8, 12, 12, 6), Featured: true,
		},
		{
			ID: "m2", Title: "Tee 2", Price: 29.99, Category: "apparel",
			Image:       "/static/img/shop/tee-2.jpg",
			Description: "Tri-blend tee, back print.",
			Inventory:   apparelSizes(5, 10, 10, 4),
		},
		{
			ID: "m3", Title: "Tee 3", Price: 32.00, Category: "apparel",
			ImageComingSoon: true, ComingSoonImage: "/static/img/shop/coming-soon.jpg",
			Description: "Limited run summer colourway.",
			Inventory:   apparelSizes(0, 0, 0, 0),
		},
		{
			ID: "h1", Title: "Pullover Hoodie", Price: 54.99, Category: "apparel",
			Image:       "/static/img/shop/hoodie.jpg",
			Description: "Fleece-lined hoodie for early sessions.",
			Inventory:   apparelSizes(4, 6, 6, 3), Featured: true,
		},
		{
			ID: "s1", Title: "Shaker Bottle", Price: 14.50, Category: "accessories",
			Image:       "/static/img/shop/shaker.jpg",
			Description: "700ml shaker with mixing ball.",
			Inventory:   map[string]int{"OS": 40},
		},
		{
			ID: "b1", Title: "Lifting Belt", Price: 69.00, Category: "equipment",
			Image:       "/static/img/shop/belt.jpg",
			Description: "10mm leather belt with single prong.",
			Inventory:   map[string]int{"S": 2, "M": 4, "L": 4},
		},
	}
}
