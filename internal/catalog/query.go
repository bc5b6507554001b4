package catalog

import (
	"context"
)

// QueryService answers shopper-facing reads. It never sees inactive products.
type QueryService struct {
	store   Store
	baseURL string
}

func NewQueryService(store Store, baseURL string) *QueryService {
	return &QueryService{store: store, baseURL: baseURL}
}

// List returns every active product matching f, newest first. Pagination
// fields of f are ignored.
func (s *QueryService) List(ctx context.Context, f Filter) ([]PublicProduct, error) {
	f.Limit, f.Offset = 0, 0
	ps, err := s.store.ListActive(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]PublicProduct, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToPublic(p, s.baseURL))
	}
	return out, nil
}

func (s *QueryService) Get(ctx context.Context, id string) (PublicProduct, error) {
	p, err := s.store.GetActive(ctx, id)
	if err != nil {
		return PublicProduct{}, err
	}
	return ToPublic(p, s.baseURL), nil
}
