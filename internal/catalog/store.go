package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Filter narrows a product listing. Zero values mean "no constraint";
// Limit 0 returns every match.
type Filter struct {
	Category     Category
	Search       string
	FeaturedOnly bool
	OutOfStock   bool
	Limit        int
	Offset       int
}

func (f Filter) cacheKey() string {
	return fmt.Sprintf("c=%s|q=%s|f=%t|o=%t|l=%d|off=%d",
		f.Category, strings.ToLower(strings.TrimSpace(f.Search)), f.FeaturedOnly, f.OutOfStock, f.Limit, f.Offset)
}

// Store persists products. Listing and GetActive only see active products;
// Get and Exists see every product regardless of state. Listings are ordered
// by creation time, newest first.
type Store interface {
	ListActive(ctx context.Context, f Filter) ([]Product, error)
	CountActive(ctx context.Context, f Filter) (int, error)
	GetActive(ctx context.Context, id string) (Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Deactivate(ctx context.Context, id string, at time.Time) error
}

// searchDocument is the text a product is matched against.
func searchDocument(p Product) string {
	parts := []string{p.Title, p.ShortDescription}
	parts = append(parts, p.Tags...)
	return strings.Join(parts, " ")
}
