package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stock is the effective stock exposed to shoppers: either untracked
// ("infinite") or a concrete quantity.
type Stock struct {
	Infinite bool
	Quantity int
}

const stockInfinite = "infinite"

func EffectiveStock(p Product) Stock {
	if p.StockQuantity == 0 && p.InStock {
		return Stock{Infinite: true}
	}
	return Stock{Quantity: p.StockQuantity}
}

func (s Stock) Available() bool { return s.Infinite || s.Quantity > 0 }

func (s Stock) String() string {
	if s.Infinite {
		return stockInfinite
	}
	return strconv.Itoa(s.Quantity)
}

func (s Stock) MarshalJSON() ([]byte, error) {
	if s.Infinite {
		return json.Marshal(stockInfinite)
	}
	return json.Marshal(s.Quantity)
}

func (s *Stock) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		if t == stockInfinite {
			*s = Stock{Infinite: true}
			return nil
		}
		n, err := strconv.Atoi(t)
		if err != nil {
			return fmt.Errorf("invalid stock %q", t)
		}
		*s = Stock{Quantity: n}
	case float64:
		*s = Stock{Quantity: int(t)}
	case nil:
		*s = Stock{}
	default:
		return fmt.Errorf("invalid stock %s", b)
	}
	return nil
}

// PublicProduct is the shape served to the storefront.
type PublicProduct struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Category         Category   `json:"category"`
	Price            float64    `json:"price"`
	OldPrice         *float64   `json:"old_price"`
	Currency         Currency   `json:"currency"`
	Images           []string   `json:"images"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"shortDescription"`
	Sizes            []string   `json:"sizes"`
	Stock            Stock      `json:"stock"`
	Tags             []string   `json:"tags"`
	Featured         bool       `json:"featured"`
	Brand            string     `json:"brand,omitempty"`
	Material         string     `json:"material,omitempty"`
	CareInstructions string     `json:"careInstructions,omitempty"`
	Dimensions       Dimensions `json:"dimensions"`
	Weight           *float64   `json:"weight"`
	PromoPrice       *float64   `json:"promoPrice"`
	IsPromoActive    bool       `json:"isPromoActive"`
}

// MainImage is the first image, or "" when there is none.
func (p PublicProduct) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ToPublic projects a stored product into the storefront shape, resolving
// relative image paths against baseURL.
func ToPublic(p Product, baseURL string) PublicProduct {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ResolveImage(img, baseURL))
	}
	return PublicProduct{
		ID:               p.ID,
		Title:            p.Title,
		Category:         p.Category,
		Price:            p.Price.InexactFloat64(),
		OldPrice:         nullFloat(p.OldPrice),
		Currency:         p.Currency,
		Images:           images,
		Description:      p.LongDescription,
		ShortDescription: p.ShortDescription,
		Sizes:            nonNil(p.Sizes),
		Stock:            EffectiveStock(p),
		Tags:             nonNil(p.Tags),
		Featured:         p.Featured,
		Brand:            p.Brand,
		Material:         p.Material,
		CareInstructions: p.CareInstructions,
		Dimensions:       p.Dimensions,
		Weight:           p.Weight,
		PromoPrice:       nullFloat(p.PromoPrice),
		IsPromoActive:    p.IsPromoActive,
	}
}

func ResolveImage(img, baseURL string) string {
	if img == "" || strings.HasPrefix(img, "http") || baseURL == "" {
		return img
	}
	if !strings.HasPrefix(img, "/") {
		img = "/" + img
	}
	return strings.TrimRight(baseURL, "/") + img
}

// FromPublic turns a product in the storefront shape back into a stored
// product. An "infinite" stock becomes an untracked in-stock product, and a
// missing short description falls back to the long one.
func FromPublic(pp PublicProduct, now time.Time) Product {
	short := pp.ShortDescription
	if strings.TrimSpace(short) == "" {
		short = pp.Description
	}
	if r := []rune(short); len(r) > MaxShortDescriptionLen {
		short = string(r[:MaxShortDescriptionLen])
	}
	cur := pp.Currency
	if !cur.Valid() {
		cur = DefaultCurrency
	}

	p := Product{
		ID:               pp.ID,
		Title:            pp.Title,
		ShortDescription: short,
		LongDescription:  pp.Description,
		Brand:            pp.Brand,
		Material:         pp.Material,
		CareInstructions: pp.CareInstructions,
		Price:            decimal.NewFromFloat(pp.Price).Round(2),
		OldPrice:         fromFloat(pp.OldPrice),
		PromoPrice:       fromFloat(pp.PromoPrice),
		IsPromoActive:    pp.IsPromoActive,
		Currency:         cur,
		Category:         pp.Category,
		Tags:             lowerAll(pp.Tags),
		Featured:         pp.Featured,
		Sizes:            nonNil(pp.Sizes),
		Images:           nonNil(pp.Images),
		Weight:           pp.Weight,
		Dimensions:       pp.Dimensions,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if pp.Stock.Infinite {
		p.InStock = true
	} else {
		p.StockQuantity = pp.Stock.Quantity
		p.InStock = pp.Stock.Quantity > 0
	}
	return p
}

func fromFloat(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*f).Round(2))
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
