package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"farm-dashboard/internal/domain/vaccines"
)

type vaccinesRepo struct {
	s *Store
}

func NewVaccinesRepo(s *Store) vaccines.Repository {
	return &vaccinesRepo{s: s}
}

func (r *vaccinesRepo) CreateVaccine(_ context.Context, v vaccines.Vaccine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("vaccine id required")
	}
	for _, existing := range r.s.vaccines {
		if strings.EqualFold(existing.Name, v.Name) {
			return vaccines.ErrDuplicateVaccine
		}
	}
	r.s.vaccines[v.ID] = v
	return nil
}

func (r *vaccinesRepo) GetVaccine(_ context.Context, id string) (vaccines.Vaccine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.vaccines[id]
	if !ok {
		return vaccines.Vaccine{}, vaccines.ErrVaccineNotFound
	}
	return v, nil
}

func (r *vaccinesRepo) ListVaccines(_ context.Context) ([]vaccines.Vaccine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]vaccines.Vaccine, 0, len(r.s.vaccines))
	for _, v := range r.s.vaccines {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (r *vaccinesRepo) CreateVaccination(_ context.Context, v vaccines.Vaccination) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("vaccination id required")
	}
	// mismas FKs que en Postgres
	if _, ok := r.s.animals[v.AnimalID]; !ok {
		return vaccines.ErrAnimalNotFound
	}
	if _, ok := r.s.vaccines[v.VaccineID]; !ok {
		return vaccines.ErrVaccineNotFound
	}

	// los nombres se resuelven al leer
	v.AnimalName, v.VaccineName = "", ""
	r.s.vaccinations[v.ID] = v
	return nil
}

func (r *vaccinesRepo) DeleteVaccination(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vaccinations[id]; !ok {
		return vaccines.ErrNotFound
	}
	delete(r.s.vaccinations, id)
	return nil
}

func (r *vaccinesRepo) ListVaccinations(_ context.Context, f vaccines.Filter) ([]vaccines.Vaccination, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]vaccines.Vaccination, 0)
	for _, v := range r.s.vaccinations {
		if f.AnimalID != "" && v.AnimalID != f.AnimalID {
			continue
		}
		v.AnimalName = r.s.animals[v.AnimalID].Name
		v.VaccineName = r.s.vaccines[v.VaccineID].Name
		out = append(out, v)
	}
	sortByNextDue(out)
	return out, nil
}

// sortByNextDue: próxima dosis ascendente, nil al final; luego aplicación y id.
func sortByNextDue(items []vaccines.Vaccination) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.NextDue == nil && b.NextDue != nil:
			return false
		case a.NextDue != nil && b.NextDue == nil:
			return true
		case a.NextDue != nil && b.NextDue != nil && !a.NextDue.Equal(*b.NextDue):
			return a.NextDue.Before(*b.NextDue)
		}
		if !a.AppliedOn.Equal(b.AppliedOn) {
			return a.AppliedOn.After(b.AppliedOn)
		}
		return a.ID < b.ID
	})
}
