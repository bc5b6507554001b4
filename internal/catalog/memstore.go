package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
)

// MemStore is an in-process Store. Search matches when any query word
// appears in the title, short description or tags.
type MemStore struct {
	mu       sync.RWMutex
	products map[string]Product
	seq      map[string]int
	next     int
}

func NewMemStore(seed ...Product) *MemStore {
	m := &MemStore{products: map[string]Product{}, seq: map[string]int{}}
	for _, p := range seed {
		m.put(p)
	}
	return m
}

func (m *MemStore) put(p Product) {
	if _, ok := m.seq[p.ID]; !ok {
		m.next++
		m.seq[p.ID] = m.next
	}
	m.products[p.ID] = clone(p)
}

func (m *MemStore) match(p Product, f Filter) bool {
	if !p.IsActive {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.FeaturedOnly && !p.Featured {
		return false
	}
	if f.OutOfStock && (p.StockQuantity != 0 || p.InStock) {
		return false
	}
	if q := words(f.Search); len(q) > 0 {
		doc := map[string]bool{}
		for _, w := range words(searchDocument(p)) {
			doc[w] = true
		}
		hit := false
		for _, w := range q {
			if doc[w] {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (m *MemStore) filtered(f Filter) []Product {
	var out []Product
	for _, p := range m.products {
		if m.match(p, f) {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.seq[out[i].ID] > m.seq[out[j].ID]
	})
	return out
}

func (m *MemStore) ListActive(_ context.Context, f Filter) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.filtered(f)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []Product{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

func (m *MemStore) CountActive(_ context.Context, f Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.filtered(f)), nil
}

func (m *MemStore) GetActive(_ context.Context, id string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return Product{}, ErrNotFound
	}
	return clone(p), nil
}

func (m *MemStore) Get(_ context.Context, id string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return clone(p), nil
}

func (m *MemStore) Exists(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.products[id]
	return ok, nil
}

func (m *MemStore) Insert(_ context.Context, p Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; ok {
		return ErrDuplicateID
	}
	m.put(p)
	return nil
}

func (m *MemStore) Update(_ context.Context, p Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return ErrNotFound
	}
	m.put(p)
	return nil
}

func (m *MemStore) Deactivate(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	p.IsActive = false
	p.UpdatedAt = at
	m.products[id] = p
	return nil
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func clone(p Product) Product {
	p.Sizes = append([]string(nil), p.Sizes...)
	p.Tags = append([]string(nil), p.Tags...)
	p.Images = append([]string(nil), p.Images...)
	return p
}
