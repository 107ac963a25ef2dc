// Package cart holds the pure cart operations. Every function returns a new
// cart and leaves its input untouched; none of them fail.
package cart

import (
	"github.com/shopspring/decimal"

	"gymsite/internal/domain"
)

// DeriveID builds the line key for a product in a given size.
func DeriveID(productID, size string) string {
	return productID + "-" + size
}

// Add puts one unit of product in the given size into the cart. An existing
// line for the same product and size is incremented instead of duplicated.
func Add(c domain.Cart, p domain.Product, size string) domain.Cart {
	id := DeriveID(p.ID, size)
	out := make(domain.Cart, 0, len(c)+1)
	found := false
	for _, it := range c {
		if it.CartID == id {
			it.Quantity++
			found = true
		}
		out = append(out, it)
	}
	if !found {
		out = append(out, domain.CartItem{
			Product:      p,
			SelectedSize: size,
			Quantity:     1,
			CartID:       id,
		})
	}
	return out
}

// Remove drops the line with cartID. Unknown ids are a no-op.
func Remove(c domain.Cart, cartID string) domain.Cart {
	out := make(domain.Cart, 0, len(c))
	for _, it := range c {
		if it.CartID != cartID {
			out = append(out, it)
		}
	}
	return out
}

// UpdateQuantity shifts a line's quantity by delta. A result of zero or less
// removes the line.
func UpdateQuantity(c domain.Cart, cartID string, delta int) domain.Cart {
	out := make(domain.Cart, 0, len(c))
	for _, it := range c {
		if it.CartID == cartID {
			q := it.Quantity + delta
			if q <= 0 {
				continue
			}
			it.Quantity = q
		}
		out = append(out, it)
	}
	return out
}

// Total is the sum of price*quantity. No rounding is applied.
func Total(c domain.Cart) float64 {
	sum := decimal.Zero
	for _, it := range c {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.InexactFloat64()
}

// Count is the number of units across all lines.
func Count(c domain.Cart) int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

// Find returns the line with cartID, if any.
func Find(c domain.Cart, cartID string) (domain.CartItem, bool) {
	for _, it := range c {
		if it.CartID == cartID {
			return it, true
		}
	}
	return domain.CartItem{}, false
}
