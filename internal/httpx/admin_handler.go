package httpx

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/upload"
)

// maxFormMemory keeps small forms in memory; larger uploads spill to disk.
const maxFormMemory = 8 << 20

type AdminHandler struct {
	Responder
	Admin   *catalog.AdminService
	Uploads *upload.Store
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/products", h.listProducts)
	r.Post("/products", h.createProduct)
	r.Get("/products/{id}", h.getProduct)
	r.Put("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	st, err := h.Admin.Dashboard(ctx)
	if err != nil {
		h.internal(w, r, "Error loading dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *AdminHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	res, err := h.Admin.List(ctx, page, limit, catalog.Category(q.Get("category")), q.Get("search"))
	if err != nil {
		h.internal(w, r, "Error loading products", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Admin.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.internal(w, r, "Error loading product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}
	out, err := h.Admin.Create(r.Context(), form)
	if err != nil {
		h.discard(form.Images)
		var verr *catalog.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "Validation failed", "fields": verr.Fields})
		case errors.Is(err, catalog.ErrDuplicateID):
			writeError(w, http.StatusConflict, "Product ID already exists")
		default:
			h.internal(w, r, "Error creating product", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}
	out, err := h.Admin.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		h.discard(form.Images)
		var verr *catalog.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "Validation failed", "fields": verr.Fields})
		case errors.Is(err, catalog.ErrNotFound):
			writeError(w, http.StatusNotFound, "Product not found")
		default:
			h.internal(w, r, "Error updating product", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	err := h.Admin.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.internal(w, r, "Error deleting product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// readForm parses a multipart or urlencoded product form and stores its
// images. It writes the error response itself when it returns false.
func (h *AdminHandler) readForm(w http.ResponseWriter, r *http.Request) (catalog.ProductForm, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFiles*upload.MaxFileSize+maxFormMemory)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "invalid form")
		return catalog.ProductForm{}, false
	}

	v := r.FormValue
	form := catalog.ProductForm{
		ID:               v("id"),
		Title:            v("title"),
		ShortDescription: v("shortDescription"),
		LongDescription:  v("longDescription"),
		Price:            v("price"),
		OldPrice:         v("oldPrice"),
		PromoPrice:       v("promoPrice"),
		IsPromoActive:    v("isPromoActive"),
		Currency:         v("currency"),
		Category:         v("category"),
		Brand:            v("brand"),
		Sizes:            v("sizes"),
		Tags:             v("tags"),
		Featured:         v("featured"),
		InStock:          v("inStock"),
		StockQuantity:    v("stockQuantity"),
		Weight:           v("weight"),
		Length:           v("length"),
		Width:            v("width"),
		Height:           v("height"),
		Material:         v("material"),
		CareInstructions: v("careInstructions"),
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File[upload.FieldName]
	}
	if len(files) > 0 {
		paths, err := h.Uploads.SaveAll(files)
		if err != nil {
			writeError(w, http.StatusBadRequest, uploadMessage(err))
			return catalog.ProductForm{}, false
		}
		form.Images = paths
	}
	return form, true
}

func (h *AdminHandler) discard(paths []string) {
	if len(paths) > 0 {
		h.Uploads.Remove(paths)
	}
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, upload.ErrNotImage):
		return "Only image files are allowed"
	case errors.Is(err, upload.ErrFileTooLarge):
		return "Each image must be 5MB or smaller"
	case errors.Is(err, upload.ErrTooManyFiles):
		return "At most 10 images can be uploaded"
	}
	return "Image upload failed"
}
