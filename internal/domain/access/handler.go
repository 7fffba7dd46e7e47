package access

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"farm-dashboard/internal/middleware"
	"farm-dashboard/internal/platform/logger"
	"farm-dashboard/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, v *validation.Validator, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc, v, log))
		ar.Get("/session", sessionHandler())
		ar.Post("/logout", logoutHandler())
	})
}

type loginRequest struct {
	PIN string `json:"pin" validate:"required,pin"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// loginHandler godoc
// @Summary Ingresar con PIN
// @Description Valida el PIN de 4 dígitos y devuelve un token de sesión (PASETO v4.local) para el header Authorization.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "PIN de acceso"
// @Success 200 {object} loginResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Failure 401 {string} string "invalid pin"
// @Failure 429 {string} string "too many login attempts"
// @Router /auth/login [post]
func loginHandler(svc *Service, v *validation.Validator, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, validation.Body(err))
			return
		}

		client := clientKey(r)
		sess, err := svc.Login(r.Context(), req.PIN, client)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrInvalidPIN):
				log.Warn("login rejected", map[string]any{"client": client})
				http.Error(w, err.Error(), http.StatusUnauthorized)
			case errors.Is(err, ErrTooManyAttempts):
				log.Warn("login rate limited", map[string]any{"client": client})
				w.Header().Set("Retry-After", "5")
				http.Error(w, err.Error(), http.StatusTooManyRequests)
			default:
				log.Error("login failed", map[string]any{"error": err.Error()})
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		log.Info("login ok", map[string]any{"client": client})
		writeJSON(w, http.StatusOK, loginResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt})
	}
}

func sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		resp := sessionResponse{Authenticated: true, Subject: claims.UserID}
		if !claims.ExpiresAt.IsZero() {
			exp := claims.ExpiresAt
			resp.ExpiresAt = &exp
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Los tokens no tienen estado en el servidor: el cliente lo descarta.
func logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// clientKey usa RemoteAddr (ya ajustado por RealIP) sin el puerto.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
