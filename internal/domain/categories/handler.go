package categories

import (
	"encoding/json"
	"net/http"
	"strings"

	"farm-dashboard/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/categories", listCategoriesHandler(svc))
}

type categoryResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// listCategoriesHandler godoc
// @Summary Listar categorías
// @Tags categories
// @Produce json
// @Param sector query string false "poultry_sale o poultry_expense"
// @Success 200 {array} categoryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /categories [get]
func listCategoriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			items []Category
			err   error
		)
		if sector := strings.TrimSpace(r.URL.Query().Get("sector")); sector != "" {
			items, err = svc.ListBySector(r.Context(), sector)
		} else {
			items, err = svc.List(r.Context())
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]categoryResponse, 0, len(items))
		for _, c := range items {
			out = append(out, categoryResponse{ID: c.ID, Name: c.Name, Sector: c.Sector})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
