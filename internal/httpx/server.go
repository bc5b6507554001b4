package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ariefcatur/go-storefront/internal/auth"
)

func NewRouter(log zerolog.Logger, origins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, Logger(log))
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// API groups the handlers mounted by Mount.
type API struct {
	Catalog   *CatalogHandler
	Orders    *OrdersHandler
	Admin     *AdminHandler
	Auth      *AuthHandler
	UploadDir string
}

func (a API) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		a.Catalog.Register(r)
		a.Orders.Register(r)
	})
	r.Route("/auth", a.Auth.Register)
	r.Route("/admin", func(r chi.Router) {
		r.Use(a.Auth.Auth.RequireAuth, auth.RequireAdmin)
		a.Admin.Register(r)
	})
	if a.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(a.UploadDir))))
	}
}
