package sanitary

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"farm-dashboard/internal/domain/alerts"
	"farm-dashboard/internal/middleware"
	"farm-dashboard/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	r.Route("/sanitary", func(sr chi.Router) {
		sr.Get("/alerts", listAlertsHandler(svc, log))
		sr.Get("/alerts/summary", summaryHandler(svc, log))
		sr.Get("/upcoming", upcomingHandler(svc, log))
		sr.Get("/overdue-animals", overdueAnimalsHandler(svc, log))
	})
}

// AlertResponse es la forma pública de una alerta (la reutiliza el dashboard).
type AlertResponse struct {
	Key           string         `json:"key"`
	AnimalID      string         `json:"animal_id"`
	AnimalName    string         `json:"animal_name"`
	TagNumber     string         `json:"tag_number"`
	VaccinationID string         `json:"vaccination_id"`
	Vaccine       string         `json:"vaccine"`
	AppliedOn     string         `json:"applied_on"`
	NextDue       string         `json:"next_due"`
	DaysRemaining int            `json:"days_remaining"`
	Urgency       alerts.Urgency `json:"urgency"`
}

type alertsResponse struct {
	Today   string          `json:"today"`
	Items   []AlertResponse `json:"items"`
	Summary alerts.Summary  `json:"summary"`
}

type overdueAnimalResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TagNumber string `json:"tag_number"`
}

// listAlertsHandler godoc
// @Summary Alertas de vacunación
// @Description Una alerta por cada vacunación con próxima dosis, de la más vencida a la más lejana. Buckets: overdue (<0 días), urgent (0-7), upcoming (8-30), scheduled (>30).
// @Tags sanitary
// @Produce json
// @Param urgency query string false "overdue, urgent, upcoming o scheduled"
// @Success 200 {object} alertsResponse
// @Failure 400 {string} string "invalid urgency"
// @Failure 401 {string} string "unauthorized"
// @Failure 422 {string} string "invalid date in vaccination record"
// @Router /sanitary/alerts [get]
func listAlertsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			filter    alerts.Urgency
			hasFilter bool
		)
		if raw := strings.TrimSpace(r.URL.Query().Get("urgency")); raw != "" {
			u, ok := alerts.ParseUrgency(raw)
			if !ok {
				http.Error(w, "invalid urgency", http.StatusBadRequest)
				return
			}
			filter, hasFilter = u, true
		}

		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}

		items := snap.Alerts
		if hasFilter {
			items = alerts.Filter(items, filter)
		}

		writeJSON(w, http.StatusOK, alertsResponse{
			Today:   alerts.FormatDate(snap.Today),
			Items:   ToAlertResponses(items),
			Summary: snap.Summary,
		})
	}
}

func summaryHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sum, err := svc.Summary(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

// upcomingHandler godoc
// @Summary Próximas vacunaciones
// @Tags sanitary
// @Produce json
// @Param n query int false "Cantidad (1-100). Por defecto upcoming_limit"
// @Success 200 {array} AlertResponse
// @Failure 400 {string} string "n must be a positive integer"
// @Failure 401 {string} string "unauthorized"
// @Failure 422 {string} string "invalid date in vaccination record"
// @Router /sanitary/upcoming [get]
func upcomingHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		n := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("n")); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 || v > maxUpcoming {
				http.Error(w, "n must be a positive integer up to 100", http.StatusBadRequest)
				return
			}
			n = v
		}

		items, err := svc.Upcoming(r.Context(), n)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, ToAlertResponses(items))
	}
}

func overdueAnimalsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.OverdueAnimals(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}

		out := make([]overdueAnimalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, overdueAnimalResponse{ID: a.ID, Name: a.Name, TagNumber: a.TagNumber})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ToAlertResponses mapea alertas a su forma JSON; nunca devuelve nil.
func ToAlertResponses(items []alerts.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(items))
	for _, a := range items {
		resp := AlertResponse{
			Key:           a.Key(),
			AnimalID:      a.Animal.ID,
			AnimalName:    a.Animal.Name,
			TagNumber:     a.Animal.TagNumber,
			VaccinationID: a.Vaccination.ID,
			Vaccine:       a.Vaccination.Vaccine,
			AppliedOn:     alerts.FormatDate(a.Vaccination.AppliedOn),
			DaysRemaining: a.DaysRemaining,
			Urgency:       a.Urgency,
		}
		if a.Vaccination.NextDue != nil {
			resp.NextDue = alerts.FormatDate(*a.Vaccination.NextDue)
		}
		out = append(out, resp)
	}
	return out
}

func authorized(r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	return ok && strings.TrimSpace(claims.UserID) != ""
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var de *alerts.DateError
	switch {
	case errors.As(err, &de):
		log.Warn("invalid vaccination date", map[string]any{
			"animal_id":      de.AnimalID,
			"vaccination_id": de.VaccinationID,
			"field":          de.Field,
		})
		http.Error(w, de.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, alerts.ErrInvalidDate):
		log.Warn("invalid vaccination date", map[string]any{"error": err.Error()})
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Error("sanitary computation failed", map[string]any{"error": err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
