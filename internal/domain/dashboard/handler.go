package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"farm-dashboard/internal/domain/alerts"
	"farm-dashboard/internal/domain/sanitary"
	"farm-dashboard/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/dashboard", summaryHandler(svc))
}

type financeResponse struct {
	Sales             float64          `json:"sales"`
	Expenses          float64          `json:"expenses"`
	Profit            float64          `json:"profit"`
	ActiveBirds       int              `json:"active_birds"`
	Monthly           []MonthPoint     `json:"monthly"`
	ExpenseByCategory []CategoryAmount `json:"expense_by_category"`
}

type cattleResponse struct {
	Registered int                      `json:"registered"`
	Alerts     *alerts.Summary          `json:"alerts,omitempty"`
	Upcoming   []sanitary.AlertResponse `json:"upcoming"`
}

type summaryResponse struct {
	Period  Period           `json:"period"`
	Sector  Sector           `json:"sector"`
	Today   string           `json:"today"`
	From    string           `json:"from"`
	To      string           `json:"to"`
	Finance *financeResponse `json:"finance,omitempty"`
	Cattle  *cattleResponse  `json:"cattle,omitempty"`
	Notices []string         `json:"notices"`
}

// summaryHandler godoc
// @Summary Resumen del panel
// @Description Ventas, gastos y utilidad del periodo, aves activas, ganado registrado, contadores de alertas de vacunación y próximas vacunaciones. Si el cálculo de vacunas falla, ese bloque se omite y se agrega un aviso en notices.
// @Tags dashboard
// @Produce json
// @Param period query string false "day, month o year (default month)"
// @Param sector query string false "poultry, cattle o all (default all)"
// @Success 200 {object} summaryResponse
// @Failure 400 {string} string "invalid period / sector"
// @Failure 401 {string} string "unauthorized"
// @Router /dashboard [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		f, err := ParseFilter(q.Get("period"), q.Get("sector"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		sum, err := svc.Summary(r.Context(), f)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toSummaryResponse(sum))
	}
}

func toSummaryResponse(s Summary) summaryResponse {
	out := summaryResponse{
		Period:  s.Filter.Period,
		Sector:  s.Filter.Sector,
		Today:   alerts.FormatDate(s.Today),
		From:    alerts.FormatDate(s.From),
		To:      alerts.FormatDate(s.To),
		Notices: s.Notices,
	}
	if out.Notices == nil {
		out.Notices = []string{}
	}
	if s.Finance != nil {
		out.Finance = toFinanceResponse(*s.Finance)
	}
	if s.Cattle != nil {
		c := &cattleResponse{Registered: s.Cattle.Registered, Alerts: s.Cattle.Alerts}
		if s.Cattle.Alerts != nil {
			c.Upcoming = sanitary.ToAlertResponses(s.Cattle.Upcoming)
		}
		out.Cattle = c
	}
	return out
}

func toFinanceResponse(f Finance) *financeResponse {
	return &financeResponse{
		Sales:             f.Totals.Sales,
		Expenses:          f.Totals.Expenses,
		Profit:            f.Totals.Profit,
		ActiveBirds:       f.ActiveBirds,
		Monthly:           nonNil(f.Monthly),
		ExpenseByCategory: nonNilCategories(f.ExpenseByCategory),
	}
}

func nonNil(p []MonthPoint) []MonthPoint {
	if p == nil {
		return []MonthPoint{}
	}
	return p
}

func nonNilCategories(c []CategoryAmount) []CategoryAmount {
	if c == nil {
		return []CategoryAmount{}
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
