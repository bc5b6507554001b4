package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariefcatur/go-storefront/internal/orders"
)

type OrdersHandler struct {
	Intake *orders.Intake
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.createOrder)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var o orders.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ack := h.Intake.Accept(r.Context(), o, middleware.GetReqID(r.Context()))
	writeJSON(w, http.StatusOK, ack)
}
