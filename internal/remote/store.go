// Package remote describes the hosted record store the site syncs admin
// content to, and ships a PostgREST client for it.
package remote

import (
	"context"
	"errors"
	"reflect"
)

// Tables used by the site.
const (
	TableSettings     = "settings"
	TableHomeContent  = "home_content"
	TableProducts     = "products"
	TableTestimonials = "testimonials"
)

var (
	ErrNotConfigured = errors.New("remote store not configured")
	ErrNotFound      = errors.New("record not found")
)

// Record is one row as column -> JSON value.
type Record map[string]any

// Filter matches rows whose columns equal the given values. Empty matches all.
type Filter map[string]any

// ByID is the common single-row filter.
func ByID(id string) Filter { return Filter{"id": id} }

// Match reports whether r satisfies f.
func (f Filter) Match(r Record) bool {
	for k, v := range f {
		if !equal(r[k], v) {
			return false
		}
	}
	return true
}

func equal(a, b any) bool {
	switch av := a.(type) {
	case float64:
		switch bv := b.(type) {
		case int:
			return av == float64(bv)
		case int64:
			return av == float64(bv)
		}
	}
	return reflect.DeepEqual(a, b)
}

// Store is record-oriented CRUD per table.
type Store interface {
	Select(ctx context.Context, table string, f Filter) ([]Record, error)
	Insert(ctx context.Context, table string, r Record) (Record, error)
	Update(ctx context.Context, table string, f Filter, patch Record) error
	Upsert(ctx context.Context, table string, r Record, conflictKey string) error
	Delete(ctx context.Context, table string, f Filter) error
}
