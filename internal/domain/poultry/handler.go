package poultry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"farm-dashboard/internal/domain/alerts"
	"farm-dashboard/internal/middleware"
	"farm-dashboard/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, v *validation.Validator) {
	r.Route("/poultry", func(pr chi.Router) {
		pr.Get("/movements", listMovementsHandler(svc))
		pr.Post("/movements", createMovementHandler(svc, v))
		pr.Delete("/movements/{movementID}", deleteMovementHandler(svc))

		pr.Get("/totals", totalsHandler(svc))

		pr.Get("/flock", getFlockHandler(svc))
		pr.Put("/flock", setFlockHandler(svc, v))
	})
}

type createMovementRequest struct {
	Kind        string  `json:"kind" validate:"required,oneof=sale expense"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Description string  `json:"description" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,max=100"`
	Amount      float64 `json:"amount" validate:"gt=0"`
}

type movementResponse struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type setFlockRequest struct {
	Count *int `json:"count" validate:"required,gte=0"`
}

type flockResponse struct {
	Count     int        `json:"count"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// listMovementsHandler godoc
// @Summary Listar ventas y gastos del galpón
// @Tags poultry
// @Produce json
// @Param kind query string false "sale o expense"
// @Param q query string false "Texto en descripción o categoría"
// @Param from query string false "Desde (YYYY-MM-DD, inclusivo)"
// @Param to query string false "Hasta (YYYY-MM-DD, inclusivo)"
// @Success 200 {array} movementResponse
// @Failure 400 {string} string "invalid filter"
// @Failure 401 {string} string "unauthorized"
// @Router /poultry/movements [get]
func listMovementsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userID(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := parseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListMovements(r.Context(), f)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]movementResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMovementResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createMovementHandler godoc
// @Summary Registrar venta o gasto
// @Tags poultry
// @Accept json
// @Produce json
// @Param payload body createMovementRequest true "Movimiento"
// @Success 201 {object} movementResponse
// @Failure 400 {object} map[string]any "validation failed / unknown category"
// @Failure 401 {string} string "unauthorized"
// @Router /poultry/movements [post]
func createMovementHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMovementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, validation.Body(err))
			return
		}
		d, err := alerts.ParseDate(req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		m, err := svc.CreateMovement(r.Context(), uid, CreateMovementInput{
			Kind:        Kind(req.Kind),
			Date:        d,
			Description: req.Description,
			Category:    req.Category,
			Amount:      req.Amount,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toMovementResponse(m))
	}
}

func deleteMovementHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userID(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.DeleteMovement(r.Context(), chi.URLParam(r, "movementID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func totalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userID(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := parseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		t, err := svc.Totals(r.Context(), f)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func getFlockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userID(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := svc.GetFlock(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFlockResponse(f))
	}
}

// setFlockHandler godoc
// @Summary Actualizar cantidad de aves
// @Tags poultry
// @Accept json
// @Produce json
// @Param payload body setFlockRequest true "Cantidad actual (>= 0)"
// @Success 200 {object} flockResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Failure 401 {string} string "unauthorized"
// @Router /poultry/flock [put]
func setFlockHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userID(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req setFlockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, validation.Body(err))
			return
		}

		f, err := svc.SetFlock(r.Context(), *req.Count)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFlockResponse(f))
	}
}

func parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	f := Filter{
		Kind:  Kind(strings.TrimSpace(q.Get("kind"))),
		Query: q.Get("q"),
	}
	if f.Kind != "" && !f.Kind.Valid() {
		return Filter{}, errors.New("kind must be sale or expense")
	}
	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		d, err := alerts.ParseDate(raw)
		if err != nil {
			return Filter{}, errors.New("from must be YYYY-MM-DD")
		}
		f.From = d
	}
	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		d, err := alerts.ParseDate(raw)
		if err != nil {
			return Filter{}, errors.New("to must be YYYY-MM-DD")
		}
		f.To = d
	}
	return f, nil
}

func userID(r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", false
	}
	return claims.UserID, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownCategory):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toMovementResponse(m Movement) movementResponse {
	return movementResponse{
		ID:          m.ID,
		Kind:        m.Kind,
		Date:        alerts.FormatDate(m.Date),
		Description: m.Description,
		Category:    m.Category,
		Amount:      m.Amount,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
	}
}

func toFlockResponse(f Flock) flockResponse {
	out := flockResponse{Count: f.Count}
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
