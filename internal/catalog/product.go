// Package catalog holds the product model, the shopper-facing query service
// and the admin service that validates and applies catalog mutations.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryMen   Category = "Men"
	CategoryWomen Category = "Women"
)

func (c Category) Valid() bool {
	return c == CategoryMen || c == CategoryWomen
}

type Currency string

const (
	CurrencyCedi   Currency = "₵"
	CurrencyDollar Currency = "$"
	CurrencyEuro   Currency = "€"
	CurrencyPound  Currency = "£"

	DefaultCurrency = CurrencyCedi
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyCedi, CurrencyDollar, CurrencyEuro, CurrencyPound:
		return true
	}
	return false
}

const (
	MaxTitleLen            = 200
	MaxShortDescriptionLen = 300
	MaxBrandLen            = 100
)

type Dimensions struct {
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Product is the stored record. ID is the external key; the row identifier
// of the backing store never leaves the repository.
type Product struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	LongDescription  string `json:"longDescription"`
	Brand            string `json:"brand"`
	Material         string `json:"material"`
	CareInstructions string `json:"careInstructions"`

	Price         decimal.Decimal     `json:"price"`
	OldPrice      decimal.NullDecimal `json:"oldPrice"`
	PromoPrice    decimal.NullDecimal `json:"promoPrice"`
	IsPromoActive bool                `json:"isPromoActive"`
	Currency      Currency            `json:"currency"`

	Category Category `json:"category"`
	Tags     []string `json:"tags"`
	Featured bool     `json:"featured"`

	InStock       bool `json:"inStock"`
	StockQuantity int  `json:"stockQuantity"`

	Sizes      []string   `json:"sizes"`
	Images     []string   `json:"images"`
	Weight     *float64   `json:"weight,omitempty"`
	Dimensions Dimensions `json:"dimensions"`

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MainImage is the first image, or "" when the product has none.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// PromoBelowPrice is the promotional pricing rule: an active promo price must
// be strictly lower than the regular price. Products without an active promo
// always satisfy it.
func PromoBelowPrice(p Product) bool {
	if !p.IsPromoActive || !p.PromoPrice.Valid {
		return true
	}
	return p.PromoPrice.Decimal.LessThan(p.Price)
}
