package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount that travels as a bare JSON number.
type Money struct{ decimal.Decimal }

func NewMoney(d decimal.Decimal) Money { return Money{d} }

func (m Money) MarshalJSON() ([]byte, error) { return []byte(m.Decimal.String()), nil }

type Customer struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	Address string  `json:"address"`
}

type Item struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     Money   `json:"price"`
	Quantity  int     `json:"quantity"`
	Variant   *string `json:"variant"`
}

// Order is the checkout snapshot sent to the intake endpoint and carried in
// the hand-off message. It is never stored as a record.
type Order struct {
	OrderID        string    `json:"order_id"`
	Customer       Customer  `json:"customer"`
	ShippingMethod string    `json:"shipping_method"`
	Items          []Item    `json:"items"`
	Subtotal       Money     `json:"subtotal"`
	Shipping       Money     `json:"shipping"`
	Total          Money     `json:"total"`
	PaymentMethod  string    `json:"payment_method"`
	Timestamp      time.Time `json:"timestamp"`
}

// Ack is the intake response.
type Ack struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}
