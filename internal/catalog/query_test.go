package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProducts() []Product {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id, title string, cat Category, tags []string, age int, active bool) Product {
		return Product{
			ID: id, Title: title, ShortDescription: title + " short", Category: cat,
			Tags: tags, Price: decimal.NewFromInt(10), Currency: DefaultCurrency,
			InStock: true, IsActive: active, CreatedAt: base.Add(time.Duration(age) * time.Hour),
		}
	}
	return []Product{
		mk("m1", "Oxford Shirt", CategoryMen, []string{"cotton"}, 1, true),
		mk("w1", "Silk Blouse", CategoryWomen, []string{"silk", "summer"}, 2, true),
		mk("m2", "Chino Shorts", CategoryMen, []string{"summer"}, 3, true),
		mk("w2", "Old Dress", CategoryWomen, nil, 4, false),
	}
}

func TestQueryListNewestFirst(t *testing.T) {
	svc := NewQueryService(NewMemStore(seedProducts()...), "")
	got, err := svc.List(context.Background(), Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "m2", got[0].ID)
	assert.Equal(t, "m1", got[2].ID)
}

func TestQueryListFilters(t *testing.T) {
	svc := NewQueryService(NewMemStore(seedProducts()...), "")

	got, err := svc.List(context.Background(), Filter{Category: CategoryWomen})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w1", got[0].ID)

	got, err = svc.List(context.Background(), Filter{Search: "summer"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.List(context.Background(), Filter{Category: CategoryMen, Search: "SUMMER"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].ID)

	got, err = svc.List(context.Background(), Filter{Search: "dress"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQuerySearchMatchesAnyWord(t *testing.T) {
	svc := NewQueryService(NewMemStore(seedProducts()...), "")

	got, err := svc.List(context.Background(), Filter{Search: "cotton silk"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "w1", got[0].ID)
	assert.Equal(t, "m1", got[1].ID)

	got, err = svc.List(context.Background(), Filter{Search: "oxford dress"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
}

func TestQueryGetHidesInactive(t *testing.T) {
	svc := NewQueryService(NewMemStore(seedProducts()...), "http://x")
	p, err := svc.Get(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Oxford Shirt", p.Title)

	_, err = svc.Get(context.Background(), "w2")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
