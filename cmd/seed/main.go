package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
)

type options struct {
	file          string
	update        bool
	adminUser     string
	adminEmail    string
	adminPassword string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.ServiceName+"-seed", cfg.LogLevel, cfg.Env)

	var opt options
	flag.StringVar(&opt.file, "file", "data/products.json", "products in the storefront JSON shape")
	flag.BoolVar(&opt.update, "update", false, "overwrite products whose id already exists")
	flag.StringVar(&opt.adminUser, "admin-user", os.Getenv("SEED_ADMIN_USER"), "create this admin account")
	flag.StringVar(&opt.adminEmail, "admin-email", os.Getenv("SEED_ADMIN_EMAIL"), "admin email")
	flag.StringVar(&opt.adminPassword, "admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	if err := run(cfg, opt, log); err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}

func run(cfg config.Config, opt options, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	products, err := readProducts(opt.file)
	if err != nil {
		return err
	}

	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.PoolOptions())
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// writes go through the cache so storefront readers see them at once
	store := catalog.NewCachedStore(&catalog.Repo{DB: db}, rdb, cfg.CatalogCacheTTL, log)
	inserted, updated, skipped, err := seedProducts(ctx, store, products, opt.update, time.Now().UTC(), log)
	if err != nil {
		return err
	}
	log.Info().Int("inserted", inserted).Int("updated", updated).Int("skipped", skipped).Msg("products seeded")

	if opt.adminUser == "" {
		return nil
	}
	svc := &auth.Service{Users: &auth.Repo{DB: db}, Sessions: auth.RedisSessions{RDB: rdb}, Log: log}
	_, err = svc.CreateUser(ctx, auth.RegisterInput{
		Username:        opt.adminUser,
		Email:           opt.adminEmail,
		Password:        opt.adminPassword,
		ConfirmPassword: opt.adminPassword,
	}, auth.RoleAdmin)
	if errors.Is(err, auth.ErrUsernameTaken) {
		log.Info().Str("username", opt.adminUser).Msg("admin already exists")
		return nil
	}
	return err
}

func readProducts(path string) ([]catalog.PublicProduct, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []catalog.PublicProduct
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// seedProducts inserts every product, or overwrites existing ids when
// update is set. Products without an id, title or known category are
// skipped.
func seedProducts(ctx context.Context, store catalog.Store, in []catalog.PublicProduct, update bool, now time.Time, log zerolog.Logger) (inserted, updated, skipped int, err error) {
	for _, pp := range in {
		p := catalog.FromPublic(pp, now)
		if p.ID == "" || p.Title == "" || !p.Category.Valid() {
			log.Warn().Str("id", p.ID).Str("category", string(p.Category)).Msg("skipping invalid product")
			skipped++
			continue
		}

		exists, err := store.Exists(ctx, p.ID)
		if err != nil {
			return inserted, updated, skipped, err
		}
		switch {
		case !exists:
			if err := store.Insert(ctx, p); err != nil {
				return inserted, updated, skipped, fmt.Errorf("insert %s: %w", p.ID, err)
			}
			inserted++
		case update:
			if err := store.Update(ctx, p); err != nil {
				return inserted, updated, skipped, fmt.Errorf("update %s: %w", p.ID, err)
			}
			updated++
		default:
			skipped++
		}
	}
	return inserted, updated, skipped, nil
}
