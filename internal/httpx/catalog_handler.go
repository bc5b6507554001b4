package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

type CatalogHandler struct {
	Responder
	Query *catalog.QueryService
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	ps, err := h.Query.List(ctx, catalog.Filter{
		Category:     catalog.Category(q.Get("category")),
		Search:       q.Get("search"),
		FeaturedOnly: q.Get("featured") == "true",
	})
	if err != nil {
		h.internal(w, r, "Failed to load products", err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Query.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.internal(w, r, "Failed to load product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
