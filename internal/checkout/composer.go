// Package checkout turns a cart and a shipping form into an order, hands it
// to the order sink and builds the merchant hand-off message.
package checkout

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
)

//go:generate mockgen -destination=mock/sink.go -package=mock_checkout . Sink,Handoff

var ErrEmptyCart = errors.New("cart is empty")

// Sink receives submitted orders. Failures never block checkout.
type Sink interface {
	SubmitOrder(ctx context.Context, o orders.Order) (orders.Ack, error)
}

// Handoff opens the deep link, e.g. in a browser or by printing it.
type Handoff interface {
	Open(link string) error
}

type HandoffFunc func(link string) error

func (f HandoffFunc) Open(link string) error { return f(link) }

type Form struct {
	Name           string
	Phone          string
	Email          string
	Address        string
	ShippingMethod string
	PaymentMethod  string
}

type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

func (f Form) validate() error {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(f.Address) == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

type Composer struct {
	Sink      Sink    // optional
	Handoff   Handoff // optional
	Recipient string
	StoreName string
	Currency  catalog.Currency
	// FreeShippingAbove waives the method fee for subtotals above it; zero disables it.
	FreeShippingAbove decimal.Decimal
	Log               zerolog.Logger
	Now               func() time.Time
}

type Receipt struct {
	Order    orders.Order
	Message  string
	DeepLink string
	// Saved reports whether the sink acknowledged the order.
	Saved bool
	Stage Stage
}

func (rc *Receipt) advance(to Stage) {
	if CanTransition(rc.Stage, to) {
		rc.Stage = to
	}
}

// Submit places the order. Only an empty cart or an incomplete form fail;
// once the order is built every later step is best effort and the receipt
// always ends Confirmed.
func (c *Composer) Submit(ctx context.Context, ct *cart.Cart, f Form) (Receipt, error) {
	lines := ct.Lines()
	if len(lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	rc := Receipt{Stage: StageCartHasItems}
	if err := f.validate(); err != nil {
		return Receipt{}, err
	}
	rc.advance(StageCheckoutFilled)

	o := c.build(lines, f)
	rc.Order = o
	rc.advance(StageSubmitted)

	if c.Sink != nil {
		if _, err := c.Sink.SubmitOrder(ctx, o); err != nil {
			c.Log.Warn().Err(err).Str("order_id", o.OrderID).Msg("order sink failed, continuing with hand-off")
		} else {
			rc.Saved = true
		}
	}

	rc.Message = OrderMessage(c.StoreName, c.currency(), o)
	rc.DeepLink = DeepLink(c.Recipient, rc.Message)
	if c.Handoff != nil {
		if err := c.Handoff.Open(rc.DeepLink); err != nil {
			c.Log.Warn().Err(err).Str("order_id", o.OrderID).Msg("hand-off failed")
		}
	}

	if err := ct.Clear(ctx); err != nil {
		c.Log.Error().Err(err).Str("order_id", o.OrderID).Msg("clear cart failed")
	}

	rc.advance(StageConfirmed)
	return rc, nil
}

func (c *Composer) build(lines []cart.Line, f Form) orders.Order {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	ts := now().UTC()

	items := make([]orders.Item, 0, len(lines))
	for _, l := range lines {
		it := orders.Item{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     orders.NewMoney(l.Price),
			Quantity:  l.Quantity,
		}
		if l.Size != "" {
			size := l.Size
			it.Variant = &size
		}
		items = append(items, it)
	}

	var email *string
	if e := strings.TrimSpace(f.Email); e != "" {
		email = &e
	}

	t := cart.Compute(lines, cart.ShippingFor(f.ShippingMethod, c.FreeShippingAbove))
	return orders.Order{
		OrderID: strconv.FormatInt(ts.UnixMilli(), 10),
		Customer: orders.Customer{
			Name:    strings.TrimSpace(f.Name),
			Phone:   strings.TrimSpace(f.Phone),
			Email:   email,
			Address: strings.TrimSpace(f.Address),
		},
		ShippingMethod: f.ShippingMethod,
		Items:          items,
		Subtotal:       orders.NewMoney(t.Subtotal),
		Shipping:       orders.NewMoney(t.Shipping),
		Total:          orders.NewMoney(t.Total),
		PaymentMethod:  f.PaymentMethod,
		Timestamp:      ts,
	}
}

func (c *Composer) currency() catalog.Currency {
	if c.Currency == "" {
		return catalog.DefaultCurrency
	}
	return c.Currency
}
