package catalog

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ProductForm is the raw admin submission. Every scalar arrives as text the
// way an HTML form posts it; Images holds references to already stored files.
type ProductForm struct {
	ID               string
	Title            string
	ShortDescription string
	LongDescription  string
	Price            string
	OldPrice         string
	PromoPrice       string
	IsPromoActive    string
	Currency         string
	Category         string
	Brand            string
	Sizes            string
	Tags             string
	Featured         string
	InStock          string
	StockQuantity    string
	Weight           string
	Length           string
	Width            string
	Height           string
	Material         string
	CareInstructions string
	Images           []string
}

// build turns the form into a product, collecting every field error instead
// of stopping at the first.
func (f ProductForm) build(requireID bool) (Product, []FieldError) {
	var errs []FieldError
	fail := func(field, msg string) { errs = append(errs, FieldError{Field: field, Msg: msg}) }

	p := Product{
		ID:               strings.TrimSpace(f.ID),
		Title:            strings.TrimSpace(f.Title),
		ShortDescription: strings.TrimSpace(f.ShortDescription),
		LongDescription:  strings.TrimSpace(f.LongDescription),
		Brand:            strings.TrimSpace(f.Brand),
		Material:         strings.TrimSpace(f.Material),
		CareInstructions: strings.TrimSpace(f.CareInstructions),
		Sizes:            splitList(f.Sizes),
		Tags:             splitTags(f.Tags),
		Images:           f.Images,
		IsPromoActive:    checkbox(f.IsPromoActive),
		Featured:         checkbox(f.Featured),
		InStock:          strings.TrimSpace(f.InStock) != "false",
		StockQuantity:    atoiOrZero(f.StockQuantity),
	}

	if requireID && p.ID == "" {
		fail("id", "Product ID is required")
	}
	if p.Title == "" {
		fail("title", "Title is required")
	} else if utf8.RuneCountInString(p.Title) > MaxTitleLen {
		fail("title", "Title must be at most 200 characters")
	}
	if p.ShortDescription == "" {
		fail("shortDescription", "Short description is required")
	} else if utf8.RuneCountInString(p.ShortDescription) > MaxShortDescriptionLen {
		fail("shortDescription", "Short description must be at most 300 characters")
	}
	if utf8.RuneCountInString(p.Brand) > MaxBrandLen {
		fail("brand", "Brand must be at most 100 characters")
	}

	price, ok := parseMoney(f.Price)
	if !ok {
		fail("price", "Price must be a positive number")
	}
	p.Price = price

	var okOld, okPromo bool
	if p.OldPrice, okOld = parseOptionalMoney(f.OldPrice); !okOld {
		fail("oldPrice", "Old price must be a non-negative number")
	}
	if p.PromoPrice, okPromo = parseOptionalMoney(f.PromoPrice); !okPromo {
		fail("promoPrice", "Promo price must be a non-negative number")
	}

	p.Category = Category(strings.TrimSpace(f.Category))
	if !p.Category.Valid() {
		fail("category", "Category must be Men or Women")
	}
	p.Currency = Currency(strings.TrimSpace(f.Currency))
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if !p.Currency.Valid() {
		fail("currency", "Currency must be one of ₵, $, €, £")
	}

	if p.StockQuantity < 0 {
		fail("stockQuantity", "Stock quantity must be zero or more")
	}

	var okW bool
	if p.Weight, okW = parseOptionalFloat(f.Weight); !okW {
		fail("weight", "Weight must be a non-negative number")
	}
	for _, d := range []struct {
		field string
		raw   string
		dst   **float64
	}{
		{"length", f.Length, &p.Dimensions.Length},
		{"width", f.Width, &p.Dimensions.Width},
		{"height", f.Height, &p.Dimensions.Height},
	} {
		v, ok := parseOptionalFloat(d.raw)
		if !ok {
			fail(d.field, "Dimensions must be non-negative numbers")
		}
		*d.dst = v
	}

	return p, errs
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitTags is splitList with every tag lower-cased.
func splitTags(s string) []string {
	return lowerAll(splitList(s))
}

// lowerAll trims and lower-cases every tag, dropping empty ones.
func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func checkbox(s string) bool {
	s = strings.TrimSpace(s)
	return s == "on" || s == "true"
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseMoney(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

func parseOptionalMoney(s string) (decimal.NullDecimal, bool) {
	if strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}, true
	}
	d, ok := parseMoney(s)
	if !ok {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}

func parseOptionalFloat(s string) (*float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return &v, true
}
