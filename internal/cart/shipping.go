package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ShippingRule interface {
	Fee(subtotal decimal.Decimal) decimal.Decimal
}

// MethodFee is a shipping method id carrying its flat fee after the first
// dash, e.g. "express-20". An unselected method costs nothing.
type MethodFee string

func (m MethodFee) Fee(decimal.Decimal) decimal.Decimal {
	parts := strings.Split(string(m), "-")
	if len(parts) < 2 {
		return decimal.Zero
	}
	digits := strings.TrimLeft(parts[1], " \t")
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	if end == 0 {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(digits[:end])
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FreeAbove charges Flat unless the subtotal is strictly above Threshold.
type FreeAbove struct {
	Threshold decimal.Decimal
	Flat      decimal.Decimal
}

func (f FreeAbove) Fee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(f.Threshold) {
		return decimal.Zero
	}
	return f.Flat
}

// ShippingFor charges the method fee, waived once the subtotal exceeds
// freeAbove. A freeAbove of zero or less never waives it.
func ShippingFor(method string, freeAbove decimal.Decimal) ShippingRule {
	m := MethodFee(method)
	if !freeAbove.IsPositive() {
		return m
	}
	return FreeAbove{Threshold: freeAbove, Flat: m.Fee(decimal.Zero)}
}
