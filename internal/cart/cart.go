// Package cart is the shopper's cart: snapshot lines keyed by product and
// size, persisted as one list through a Storage after every change.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNoSuchLine      = errors.New("no such cart line")
)

// Line is a snapshot of a product taken when it was added. Later catalog
// changes do not touch it. Size "" means no size was chosen.
type Line struct {
	ProductID string          `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
}

func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Catalog resolves product ids for Add.
type Catalog interface {
	Lookup(id string) (catalog.PublicProduct, bool)
}

// Snapshot is a Catalog over an already loaded product list.
type Snapshot map[string]catalog.PublicProduct

func NewSnapshot(products []catalog.PublicProduct) Snapshot {
	s := make(Snapshot, len(products))
	for _, p := range products {
		s[p.ID] = p
	}
	return s
}

func (s Snapshot) Lookup(id string) (catalog.PublicProduct, bool) {
	p, ok := s[id]
	return p, ok
}

// Listener is told about every committed change.
type Listener func(lines []Line)

type Cart struct {
	mu        sync.Mutex
	lines     []Line
	store     Storage
	catalog   Catalog
	listeners []Listener
}

// Open loads the persisted lines. cat may be nil when the cart is only read
// or edited by index.
func Open(ctx context.Context, store Storage, cat Catalog) (*Cart, error) {
	lines, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Cart{lines: lines, store: store, catalog: cat}, nil
}

func (c *Cart) OnChange(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return count(c.lines)
}

func count(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Add puts qty units of a product in the cart. An unknown product is a
// no-op and reports false. A line with the same product and size absorbs
// the quantity.
func (c *Cart) Add(ctx context.Context, productID string, qty int, size string) (bool, error) {
	if qty < 1 {
		return false, ErrInvalidQuantity
	}
	if c.catalog == nil {
		return false, nil
	}
	p, ok := c.catalog.Lookup(productID)
	if !ok {
		return false, nil
	}

	return true, c.mutate(ctx, func(lines []Line) ([]Line, error) {
		for i := range lines {
			if lines[i].ProductID == productID && lines[i].Size == size {
				lines[i].Quantity += qty
				return lines, nil
			}
		}
		return append(lines, Line{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     decimal.NewFromFloat(p.Price),
			Image:     p.MainImage(),
			Quantity:  qty,
			Size:      size,
		}), nil
	})
}

func (c *Cart) Remove(ctx context.Context, index int) error {
	return c.mutate(ctx, func(lines []Line) ([]Line, error) {
		if index < 0 || index >= len(lines) {
			return nil, ErrNoSuchLine
		}
		return append(lines[:index], lines[index+1:]...), nil
	})
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (c *Cart) UpdateQuantity(ctx context.Context, index, qty int) error {
	return c.mutate(ctx, func(lines []Line) ([]Line, error) {
		if index < 0 || index >= len(lines) {
			return nil, ErrNoSuchLine
		}
		if qty <= 0 {
			return append(lines[:index], lines[index+1:]...), nil
		}
		lines[index].Quantity = qty
		return lines, nil
	})
}

func (c *Cart) Clear(ctx context.Context) error {
	return c.mutate(ctx, func([]Line) ([]Line, error) { return []Line{}, nil })
}

// mutate applies fn to a copy of the lines, persists the result and only
// then makes it current.
func (c *Cart) mutate(ctx context.Context, fn func([]Line) ([]Line, error)) error {
	c.mu.Lock()
	next, err := fn(append([]Line(nil), c.lines...))
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.store.Save(ctx, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.lines = next
	listeners := append([]Listener(nil), c.listeners...)
	snapshot := append([]Line(nil), next...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
	return nil
}

type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Totals prices the cart. An empty cart never pays shipping.
func (c *Cart) Totals(rule ShippingRule) Totals {
	return Compute(c.Lines(), rule)
}

func Compute(lines []Line, rule ShippingRule) Totals {
	sub := decimal.Zero
	for _, l := range lines {
		sub = sub.Add(l.Total())
	}
	ship := decimal.Zero
	if len(lines) > 0 && rule != nil {
		ship = rule.Fee(sub)
	}
	return Totals{Subtotal: sub, Shipping: ship, Total: sub.Add(ship)}
}
