package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ENFORCE_PROMO_RULE", "")
	t.Setenv("CATALOG_CACHE_TTL", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("FREE_SHIPPING_ABOVE", "")

	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.EnforcePromoRule)
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.FreeShippingAbove.IsZero())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("BASE_URL", "https://shop.example.com/")
	t.Setenv("ENFORCE_PROMO_RULE", "true")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("NOTIFIER_WORKERS", "-2")
	t.Setenv("APP_ENV", "development")
	t.Setenv("FREE_SHIPPING_ABOVE", "250.50")
	t.Setenv("DB_MAX_CONNS", "16")

	cfg := Load()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "https://shop.example.com", cfg.BaseURL)
	assert.True(t, cfg.EnforcePromoRule)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.Equal(t, 4, cfg.NotifierWorkers)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "250.5", cfg.FreeShippingAbove.String())
	assert.EqualValues(t, 16, cfg.PoolOptions().MaxConns)
	assert.EqualValues(t, 1, cfg.PoolOptions().MinConns)
}
