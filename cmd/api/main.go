package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/upload"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.ServiceName, cfg.LogLevel, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunMigrations {
		if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
	}

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.PoolOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderReceived, 1024, log)
	prod.Start(ctx)

	uploads, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir")
	}

	// Catalog
	store := catalog.NewCachedStore(&catalog.Repo{DB: db}, rdb, cfg.CatalogCacheTTL, log)
	admin := catalog.NewAdminService(store, log, catalog.WithPromoRuleEnforced(cfg.EnforcePromoRule))

	authSvc := &auth.Service{
		Users:    &auth.Repo{DB: db},
		Sessions: auth.RedisSessions{RDB: rdb},
		Log:      log,
	}

	rs := httpx.Responder{Log: log, Dev: cfg.IsDevelopment()}
	router := httpx.NewRouter(log, cfg.CORSOrigins)
	httpx.API{
		Catalog: &httpx.CatalogHandler{Responder: rs, Query: catalog.NewQueryService(store, cfg.BaseURL)},
		Orders: &httpx.OrdersHandler{Intake: &orders.Intake{
			Publisher: prod,
			Service:   cfg.ServiceName,
			Log:       log,
		}},
		Admin:     &httpx.AdminHandler{Responder: rs, Admin: admin, Uploads: uploads},
		Auth:      &httpx.AuthHandler{Responder: rs, Auth: authSvc, SecureCookie: cfg.SecureCookies},
		UploadDir: cfg.UploadDir,
	}.Mount(router)

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	prod.Close()      // flush queued events
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
