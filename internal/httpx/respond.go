package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// Responder reports server-side failures. Dev attaches the cause to the body.
type Responder struct {
	Log zerolog.Logger
	Dev bool
}

func (rs Responder) internal(w http.ResponseWriter, r *http.Request, msg string, err error) {
	rs.Log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg(msg)
	body := map[string]string{"error": msg}
	if rs.Dev && err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}
