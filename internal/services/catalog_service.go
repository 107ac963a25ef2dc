package services

import (
	"strings"

	"github.com/google/uuid"

	"gymsite/internal/catalog"
	"gymsite/internal/domain"
	"gymsite/internal/gateway"
)

type CatalogService struct {
	GW *gateway.Gateway
}

func NewCatalogService(gw *gateway.Gateway) *CatalogService {
	return &CatalogService{GW: gw}
}

func (s *CatalogService) List(category string, featuredOnly bool) []domain.Product {
	return catalog.Filter(s.GW.Products(), category, featuredOnly)
}

// Search matches q against titles and descriptions, case-insensitively.
func (s *CatalogService) Search(q, category string) []domain.Product {
	q = strings.ToLower(q)
	var out []domain.Product
	for _, p := range catalog.Filter(s.GW.Products(), category, false) {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

func (s *CatalogService) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range s.GW.Products() {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	p, ok := s.GW.Product(id)
	if !ok {
		return domain.Product{}, ErrUnknownProduct
	}
	return p, nil
}

// Save creates the product when it has no id, otherwise replaces it.
func (s *CatalogService) Save(p domain.Product) domain.Product {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	return s.GW.SaveProduct(p)
}

func (s *CatalogService) Delete(id string) error {
	if err := s.GW.DeleteProduct(id); err != nil {
		return ErrUnknownProduct
	}
	return nil
}

// BulkEdit is a partial update applied to several products at once.
type BulkEdit struct {
	ID       string   `json:"id"`
	Price    *float64 `json:"price,omitempty"`
	Featured *bool    `json:"featured,omitempty"`
}

// ApplyBulk updates prices and featured flags. Unknown ids are skipped and
// returned.
func (s *CatalogService) ApplyBulk(edits []BulkEdit) (updated []domain.Product, unknown []string) {
	for _, e := range edits {
		p, ok := s.GW.Product(e.ID)
		if !ok {
			unknown = append(unknown, e.ID)
			continue
		}
		if e.Price != nil {
			p.Price = *e.Price
		}
		if e.Featured != nil {
			p.Featured = *e.Featured
		}
		updated = append(updated, p)
	}
	s.GW.SaveProducts(updated)
	return updated, unknown
}
