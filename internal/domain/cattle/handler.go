package cattle

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
	r.Route("/cattle", func(cr chi.Router) {
		cr.Post("/", createAnimalHandler(svc, v))
		cr.Get("/", listAnimalsHandler(svc))

		cr.Get("/{animalID}", getAnimalHandler(svc))
		cr.Patch("/{animalID}", updateAnimalHandler(svc, v))
		cr.Delete("/{animalID}", deleteAnimalHandler(svc))

		// Pesajes
		cr.Post("/{animalID}/weights", addWeightHandler(svc, v))
		cr.Get("/{animalID}/weights", listWeightsHandler(svc))
	})
}

type createAnimalRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	TagNumber      string  `json:"tag_number" validate:"required,max=50"`
	EntryDate      string  `json:"entry_date" validate:"required,datetime=2006-01-02"`
	EntryAgeMonths int     `json:"entry_age_months" validate:"gte=0"`
	InitialWeight  float64 `json:"initial_weight" validate:"gt=0"`
	Status         string  `json:"status" validate:"omitempty,oneof=active sold deceased"`
	Notes          string  `json:"notes" validate:"max=500"`
}

type updateAnimalRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name           *string  `json:"name" validate:"omitempty,min=1,max=100"`
	TagNumber      *string  `json:"tag_number" validate:"omitempty,min=1,max=50"`
	EntryDate      *string  `json:"entry_date" validate:"omitempty,datetime=2006-01-02"`
	EntryAgeMonths *int     `json:"entry_age_months" validate:"omitempty,gte=0"`
	InitialWeight  *float64 `json:"initial_weight" validate:"omitempty,gt=0"`
	Status         *string  `json:"status" validate:"omitempty,oneof=active sold deceased"`
	Notes          *string  `json:"notes" validate:"omitempty,max=500"`
}

type animalResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	TagNumber      string    `json:"tag_number"`
	EntryDate      string    `json:"entry_date"`
	EntryAgeMonths int       `json:"entry_age_months"`
	InitialWeight  float64   `json:"initial_weight"`
	Status         Status    `json:"status"`
	Notes          string    `json:"notes"`
	AgeMonths      int       `json:"age_months"`
	DaysOnFarm     int       `json:"days_on_farm"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type listAnimalsResponse struct {
	Items                []animalResponse `json:"items"`
	Total                int              `json:"total"`
	AverageInitialWeight int              `json:"average_initial_weight"`
}

type addWeightRequest struct {
	Weight float64 `json:"weight" validate:"gt=0"`
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
}

type weightResponse struct {
	ID        string    `json:"id"`
	AnimalID  string    `json:"animal_id"`
	Weight    float64   `json:"weight"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description Registra una res con su chapeta, fecha y edad de ingreso y peso inicial.
// @Tags cattle
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token de sesión"
// @Param payload body createAnimalRequest true "Datos del animal; entry_date en formato YYYY-MM-DD"
// @Success 201 {object} animalResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Failure 401 {string} string "unauthorized"
// @Router /cattle [post]
func createAnimalHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, validation.Body(err))
			return
		}

		entry, err := alerts.ParseDate(req.EntryDate)
		if err != nil {
			http.Error(w, "entry_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			Name:           req.Name,
			TagNumber:      req.TagNumber,
			EntryDate:      entry,
			EntryAgeMonths: req.EntryAgeMonths,
			InitialWeight:  req.InitialWeight,
			Status:         Status(req.Status),
			Notes:          req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a, svc.Today()))
	}
}

// listAnimalsHandler godoc
// @Summary Listar ganado
// @Tags cattle
// @Produce json
// @Param q query string false "Texto a buscar en nombre o chapeta"
// @Param status query string false "active, sold o deceased"
// @Success 200 {object} listAnimalsResponse
// @Failure 401 {string} string "unauthorized"
// @Router /cattle [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		items, err := svc.List(r.Context(), Filter{
			Query:  q.Get("q"),
			Status: Status(strings.TrimSpace(q.Get("status"))),
		})
		if err != nil {
			writeError(w, err)
			return
		}

		today := svc.Today()
		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a, today))
		}

		writeJSON(w, http.StatusOK, listAnimalsResponse{
			Items:                out,
			Total:                len(out),
			AverageInitialWeight: AverageInitialWeight(items),
		})
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a, svc.Today()))
	}
}

func updateAnimalHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateAnimalRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, validation.Body(err))
			return
		}

		in := UpdateInput{
			Name:           req.Name,
			TagNumber:      req.TagNumber,
			EntryAgeMonths: req.EntryAgeMonths,
			InitialWeight:  req.InitialWeight,
			Notes:          req.Notes,
		}
		if req.EntryDate != nil {
			d, err := alerts.ParseDate(*req.EntryDate)
			if err != nil {
				http.Error(w, "entry_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.EntryDate = &d
		}
		if req.Status != nil {
			st := Status(*req.Status)
			in.Status = &st
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "animalID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a, svc.Today()))
	}
}

// deleteAnimalHandler godoc
// @Summary Eliminar animal
// @Description Elimina el animal junto con sus pesajes y vacunaciones.
// @Tags cattle
// @Param animalID path string true "ID del animal"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /cattle/{animalID} [delete]
func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addWeightHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req addWeightRequest
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

		rec, err := svc.AddWeight(r.Context(), chi.URLParam(r, "animalID"), WeightInput{Weight: req.Weight, Date: d})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toWeightResponse(rec))
	}
}

func listWeightsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListWeights(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]weightResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toWeightResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func authorized(r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	return ok && strings.TrimSpace(claims.UserID) != ""
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAnimalResponse(a Animal, today time.Time) animalResponse {
	return animalResponse{
		ID:             a.ID,
		Name:           a.Name,
		TagNumber:      a.TagNumber,
		EntryDate:      alerts.FormatDate(a.EntryDate),
		EntryAgeMonths: a.EntryAgeMonths,
		InitialWeight:  a.InitialWeight,
		Status:         a.Status,
		Notes:          a.Notes,
		AgeMonths:      CurrentAgeMonths(a, today),
		DaysOnFarm:     DaysOnFarm(a, today),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toWeightResponse(w WeightRecord) weightResponse {
	return weightResponse{
		ID:        w.ID,
		AnimalID:  w.AnimalID,
		Weight:    w.Weight,
		Date:      alerts.FormatDate(w.Date),
		CreatedAt: w.CreatedAt,
	}
}

// writeJSON está duplicado en cada módulo a propósito, igual que en el resto de handlers.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
