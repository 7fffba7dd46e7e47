package vaccines

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
	// Catálogo
	r.Route("/vaccines", func(vr chi.Router) {
		vr.Get("/", listVaccinesHandler(svc))
		vr.Post("/", createVaccineHandler(svc, v))
	})

	// Aplicaciones
	r.Route("/vaccinations", func(vr chi.Router) {
		vr.Get("/", listVaccinationsHandler(svc))
		vr.Post("/", recordVaccinationHandler(svc, v))
		vr.Get("/last", lastVaccinationHandler(svc))
		vr.Delete("/{vaccinationID}", deleteVaccinationHandler(svc))
	})
}

type createVaccineRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=500"`
	FrequencyDays int    `json:"frequency_days" validate:"gte=0"`
}

type vaccineResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	FrequencyDays int       `json:"frequency_days"`
	CreatedAt     time.Time `json:"created_at"`
}

type recordVaccinationRequest struct {
	AnimalID  string `json:"animal_id" validate:"required"`
	VaccineID string `json:"vaccine_id" validate:"required"`
	AppliedOn string `json:"applied_on" validate:"required,datetime=2006-01-02"`
	NextDue   string `json:"next_due" validate:"omitempty,datetime=2006-01-02"` // vacío = sin próxima dosis
	Notes     string `json:"notes" validate:"max=500"`
}

type vaccinationResponse struct {
	ID          string    `json:"id"`
	AnimalID    string    `json:"animal_id"`
	AnimalName  string    `json:"animal_name,omitempty"`
	VaccineID   string    `json:"vaccine_id"`
	VaccineName string    `json:"vaccine_name,omitempty"`
	AppliedOn   string    `json:"applied_on"`
	NextDue     *string   `json:"next_due"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

func listVaccinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListVaccines(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]vaccineResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVaccineResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createVaccineHandler godoc
// @Summary Crear vacuna en el catálogo
// @Tags vaccines
// @Accept json
// @Produce json
// @Param payload body createVaccineRequest true "Vacuna"
// @Success 201 {object} vaccineResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "vaccine already exists"
// @Router /vaccines [post]
func createVaccineHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createVaccineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, validation.Body(err))
			return
		}

		vac, err := svc.CreateVaccine(r.Context(), CreateVaccineInput{
			Name:          req.Name,
			Description:   req.Description,
			FrequencyDays: req.FrequencyDays,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toVaccineResponse(vac))
	}
}

// listVaccinationsHandler godoc
// @Summary Listar vacunaciones
// @Description Ordenadas por próxima dosis; las que no tienen próxima dosis van al final.
// @Tags vaccines
// @Produce json
// @Param animal_id query string false "Filtra por animal"
// @Success 200 {array} vaccinationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /vaccinations [get]
func listVaccinationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListVaccinations(r.Context(), Filter{AnimalID: r.URL.Query().Get("animal_id")})
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]vaccinationResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVaccinationResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// recordVaccinationHandler godoc
// @Summary Registrar vacunación
// @Description Registra una dosis aplicada. next_due es opcional y no puede ser anterior a applied_on.
// @Tags vaccines
// @Accept json
// @Produce json
// @Param payload body recordVaccinationRequest true "Fechas en formato YYYY-MM-DD"
// @Success 201 {object} vaccinationResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found / vaccine not found"
// @Router /vaccinations [post]
func recordVaccinationHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req recordVaccinationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, validation.Body(err))
			return
		}

		applied, err := alerts.ParseDate(req.AppliedOn)
		if err != nil {
			http.Error(w, "applied_on must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		var next *time.Time
		if strings.TrimSpace(req.NextDue) != "" {
			d, err := alerts.ParseDate(req.NextDue)
			if err != nil {
				http.Error(w, "next_due must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			next = &d
		}

		vac, err := svc.RecordVaccination(r.Context(), RecordInput{
			AnimalID:  req.AnimalID,
			VaccineID: req.VaccineID,
			AppliedOn: applied,
			NextDue:   next,
			Notes:     req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toVaccinationResponse(vac))
	}
}

func lastVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		animalID := strings.TrimSpace(r.URL.Query().Get("animal_id"))
		if animalID == "" {
			http.Error(w, "animal_id is required", http.StatusBadRequest)
			return
		}

		v, err := svc.LastVaccination(r.Context(), animalID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toVaccinationResponse(v))
	}
}

func deleteVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.DeleteVaccination(r.Context(), chi.URLParam(r, "vaccinationID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func authorized(r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	return ok && strings.TrimSpace(claims.UserID) != ""
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNextDueBeforeDose):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrVaccineNotFound), errors.Is(err, ErrAnimalNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDuplicateVaccine):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toVaccineResponse(v Vaccine) vaccineResponse {
	return vaccineResponse{
		ID:            v.ID,
		Name:          v.Name,
		Description:   v.Description,
		FrequencyDays: v.FrequencyDays,
		CreatedAt:     v.CreatedAt,
	}
}

func toVaccinationResponse(v Vaccination) vaccinationResponse {
	out := vaccinationResponse{
		ID:          v.ID,
		AnimalID:    v.AnimalID,
		AnimalName:  v.AnimalName,
		VaccineID:   v.VaccineID,
		VaccineName: v.VaccineName,
		AppliedOn:   alerts.FormatDate(v.AppliedOn),
		Notes:       v.Notes,
		CreatedAt:   v.CreatedAt,
	}
	if v.NextDue != nil {
		s := alerts.FormatDate(*v.NextDue)
		out.NextDue = &s
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
