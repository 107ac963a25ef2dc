package services

import (
	"gymsite/internal/domain"
	"gymsite/internal/gateway"
)

const (
	StatusInStock    = "IN_STOCK"
	StatusLowStock   = "LOW_STOCK"
	StatusOutOfStock = "OUT_OF_STOCK"
)

type InventoryService struct {
	GW *gateway.Gateway
}

func NewInventoryService(gw *gateway.Gateway) *InventoryService {
	return &InventoryService{GW: gw}
}

// Availability converts a size's count to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
// Products without an inventory map are not stock-tracked and always in stock.
func (s *InventoryService) Availability(p domain.Product, size string) domain.Availability {
	if p.Inventory == nil {
		return domain.Availability{Status: StatusInStock}
	}
	qty := p.Inventory[size]
	status := StatusOutOfStock
	switch {
	case qty >= 5:
		status = StatusInStock
	case qty > 0:
		status = StatusLowStock
	}
	return domain.Availability{Status: status, Qty: qty}
}

// SetStock stores a new count for one size and saves the product.
func (s *InventoryService) SetStock(productID, size string, qty int) (domain.Product, error) {
	p, ok := s.GW.Product(productID)
	if !ok {
		return domain.Product{}, ErrUnknownProduct
	}
	inv := make(map[string]int, len(p.Inventory)+1)
	for k, v := range p.Inventory {
		inv[k] = v
	}
	if qty < 0 {
		qty = 0
	}
	inv[size] = qty
	p.Inventory = inv
	return s.GW.SaveProduct(p), nil
}
