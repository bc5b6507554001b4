package httpx

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/auth"
)

type AuthHandler struct {
	Responder
	Auth *auth.Service
	// SecureCookie marks the session cookie HTTPS-only.
	SecureCookie bool
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.With(h.Auth.RequireAuth).Get("/me", h.me)
}

type sessionResp struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      auth.Role `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// fields reads a JSON object or a regular form into a flat map.
func fields(r *http.Request, names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		var m map[string]string
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			return nil, err
		}
		for _, n := range names {
			out[n] = m[n]
		}
		return out, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	for _, n := range names {
		out[n] = r.PostFormValue(n)
	}
	return out, nil
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	f, err := fields(r, "username", "email", "password", "confirmPassword")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := h.Auth.Register(r.Context(), auth.RegisterInput{
		Username:        f["username"],
		Email:           f["email"],
		Password:        f["password"],
		ConfirmPassword: f["confirmPassword"],
	})
	if err != nil {
		h.authError(w, r, err, "An error occurred during registration")
		return
	}
	h.setCookie(w, sess)
	writeJSON(w, http.StatusCreated, toSessionResp(sess))
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	f, err := fields(r, "username", "password")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := h.Auth.Login(r.Context(), f["username"], f["password"])
	if err != nil {
		h.authError(w, r, err, "An error occurred during login")
		return
	}
	h.setCookie(w, sess)
	writeJSON(w, http.StatusOK, toSessionResp(sess))
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
		h.Log.Warn().Err(err).Msg("logout failed")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	writeJSON(w, http.StatusOK, toSessionResp(sess))
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, s auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) authError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, auth.ErrUsernameTaken), errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrDeactivated):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		h.internal(w, r, fallback, err)
	}
}

func toSessionResp(s auth.Session) sessionResp {
	return sessionResp{Token: s.Token, Username: s.Username, Role: s.Role, ExpiresAt: s.ExpiresAt}
}
