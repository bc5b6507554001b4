package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/config"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/notify"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	service := cfg.ServiceName + "-notifier"
	log := logging.New(service, cfg.LogLevel, cfg.Env)

	if err := run(cfg, service, log); err != nil {
		log.Error().Err(err).Msg("consumer exit")
		os.Exit(1)
	}
	log.Info().Msg("notifier stopped")
}

func run(cfg config.Config, service string, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Dedup:     notify.RedisDeduper{RDB: rdb, Service: service},
		Recipient: cfg.MerchantWhatsApp,
		StoreName: cfg.StoreName,
		Currency:  catalog.DefaultCurrency,
		Log:       log,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, orders.TopicOrderReceived, cfg.NotifierWorkers, log)
	log.Info().
		Str("group", cfg.NotifierGroup).
		Str("topic", orders.TopicOrderReceived).
		Int("workers", cfg.NotifierWorkers).
		Msg("notifier consumer started")

	return cons.Start(ctx, svc.HandleOrderReceived)
}
