package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveStock(t *testing.T) {
	cases := []struct {
		name    string
		inStock bool
		qty     int
		want    Stock
	}{
		{"untracked", true, 0, Stock{Infinite: true}},
		{"out of stock", false, 0, Stock{Quantity: 0}},
		{"counted", true, 5, Stock{Quantity: 5}},
		{"counted but flagged out", false, 2, Stock{Quantity: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EffectiveStock(Product{InStock: tc.inStock, StockQuantity: tc.qty})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStockJSON(t *testing.T) {
	b, err := json.Marshal(Stock{Infinite: true})
	require.NoError(t, err)
	assert.JSONEq(t, `"infinite"`, string(b))

	b, err = json.Marshal(Stock{Quantity: 7})
	require.NoError(t, err)
	assert.JSONEq(t, `7`, string(b))

	var s Stock
	require.NoError(t, json.Unmarshal([]byte(`"infinite"`), &s))
	assert.True(t, s.Infinite)
	require.NoError(t, json.Unmarshal([]byte(`3`), &s))
	assert.Equal(t, Stock{Quantity: 3}, s)
	assert.Error(t, json.Unmarshal([]byte(`true`), &s))
}

func TestToPublic(t *testing.T) {
	p := Product{
		ID:              "KC-9",
		Title:           "Wrap Dress",
		LongDescription: "Long text",
		Price:           decimal.RequireFromString("80.50"),
		OldPrice:        decimal.NewNullDecimal(decimal.NewFromInt(100)),
		Currency:        CurrencyEuro,
		Category:        CategoryWomen,
		Images:          []string{"/uploads/a.jpg", "https://cdn.example.com/b.jpg", "uploads/c.jpg"},
		InStock:         true,
	}

	pub := ToPublic(p, "https://shop.example.com/")
	assert.Equal(t, "Long text", pub.Description)
	assert.Equal(t, 80.5, pub.Price)
	require.NotNil(t, pub.OldPrice)
	assert.Equal(t, 100.0, *pub.OldPrice)
	assert.Nil(t, pub.PromoPrice)
	assert.Equal(t, CurrencyEuro, pub.Currency)
	assert.Equal(t, []string{
		"https://shop.example.com/uploads/a.jpg",
		"https://cdn.example.com/b.jpg",
		"https://shop.example.com/uploads/c.jpg",
	}, pub.Images)
	assert.True(t, pub.Stock.Infinite)
	assert.Equal(t, []string{}, pub.Sizes)

	b, err := json.Marshal(pub)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, 100.0, raw["old_price"])
	assert.Equal(t, "infinite", raw["stock"])
	assert.NotContains(t, raw, "longDescription")
}

func TestPromoBelowPrice(t *testing.T) {
	p := Product{Price: decimal.NewFromInt(50)}
	assert.True(t, PromoBelowPrice(p))

	p.IsPromoActive = true
	assert.True(t, PromoBelowPrice(p), "active promo without a promo price")

	p.PromoPrice = decimal.NewNullDecimal(decimal.NewFromInt(50))
	assert.False(t, PromoBelowPrice(p))

	p.PromoPrice = decimal.NewNullDecimal(decimal.NewFromInt(40))
	assert.True(t, PromoBelowPrice(p))
}

func TestFromPublic(t *testing.T) {
	raw := `[
		{"id":"KC-1","title":"Kente Scarf","category":"Women","price":45.5,"old_price":60,
		 "description":"Handwoven kente.","images":["/uploads/k.jpg"],"stock":"infinite"},
		{"id":"KC-2","title":"Chinos","category":"Men","price":90,"currency":"$",
		 "shortDescription":"Slim fit","stock":3,"sizes":["32","34"],"tags":["Smart ","CASUAL"]},
		{"id":"KC-3","title":"Sold Out Tee","category":"Men","price":20,"stock":0}
	]`
	var in []PublicProduct
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	scarf := FromPublic(in[0], now)
	assert.Equal(t, "Handwoven kente.", scarf.ShortDescription)
	assert.Equal(t, "Handwoven kente.", scarf.LongDescription)
	assert.Equal(t, DefaultCurrency, scarf.Currency)
	assert.True(t, scarf.OldPrice.Valid)
	assert.Equal(t, "60", scarf.OldPrice.Decimal.String())
	assert.True(t, scarf.InStock)
	assert.Zero(t, scarf.StockQuantity)
	assert.True(t, EffectiveStock(scarf).Infinite)
	assert.True(t, scarf.IsActive)
	assert.Equal(t, now, scarf.CreatedAt)

	chinos := FromPublic(in[1], now)
	assert.Equal(t, CurrencyDollar, chinos.Currency)
	assert.Equal(t, 3, chinos.StockQuantity)
	assert.True(t, chinos.InStock)
	assert.False(t, chinos.OldPrice.Valid)
	assert.Equal(t, []string{"smart", "casual"}, chinos.Tags)
	assert.Equal(t, []string{}, scarf.Tags)

	tee := FromPublic(in[2], now)
	assert.False(t, tee.InStock)
	assert.False(t, EffectiveStock(tee).Available())
}
