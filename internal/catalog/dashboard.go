package catalog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	recentCount     = 5
)

type Page struct {
	Products      []Product `json:"products"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	TotalProducts int       `json:"totalProducts"`
}

// List is the paginated admin listing over active products.
func (s *AdminService) List(ctx context.Context, page, limit int, category Category, search string) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	f := Filter{Category: category, Search: search, Limit: limit, Offset: (page - 1) * limit}

	var (
		products []Product
		total    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.store.ListActive(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		total, err = s.store.CountActive(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	if products == nil {
		products = []Product{}
	}
	return Page{
		Products:      products,
		CurrentPage:   page,
		TotalPages:    (total + limit - 1) / limit,
		TotalProducts: total,
	}, nil
}

type RecentProduct struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	Price     string    `json:"price"`
	Currency  Currency  `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

type Stats struct {
	TotalProducts    int             `json:"totalProducts"`
	FeaturedProducts int             `json:"featuredProducts"`
	MenProducts      int             `json:"menProducts"`
	WomenProducts    int             `json:"womenProducts"`
	OutOfStock       int             `json:"outOfStock"`
	Recent           []RecentProduct `json:"recentProducts"`
}

// Dashboard gathers the admin overview counts concurrently.
func (s *AdminService) Dashboard(ctx context.Context) (Stats, error) {
	var st Stats
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int, f Filter) {
		g.Go(func() (err error) {
			*dst, err = s.store.CountActive(gctx, f)
			return err
		})
	}
	count(&st.TotalProducts, Filter{})
	count(&st.FeaturedProducts, Filter{FeaturedOnly: true})
	count(&st.MenProducts, Filter{Category: CategoryMen})
	count(&st.WomenProducts, Filter{Category: CategoryWomen})
	count(&st.OutOfStock, Filter{OutOfStock: true})

	var recent []Product
	g.Go(func() (err error) {
		recent, err = s.store.ListActive(gctx, Filter{Limit: recentCount})
		return err
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	st.Recent = make([]RecentProduct, 0, len(recent))
	for _, p := range recent {
		st.Recent = append(st.Recent, RecentProduct{
			ID:        p.ID,
			Title:     p.Title,
			Category:  p.Category,
			Price:     p.Price.StringFixed(2),
			Currency:  p.Currency,
			CreatedAt: p.CreatedAt,
		})
	}
	return st, nil
}
