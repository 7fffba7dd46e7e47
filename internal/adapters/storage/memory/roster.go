package memory

import (
	"context"
	"sort"

	"farm-dashboard/internal/domain/alerts"
	"farm-dashboard/internal/domain/cattle"
	"farm-dashboard/internal/domain/sanitary"
)

type rosterSource struct {
	s *Store
}

// NewRosterSource une animales activos con sus vacunaciones y el nombre de la vacuna.
func NewRosterSource(s *Store) sanitary.RosterSource {
	return &rosterSource{s: s}
}

func (r *rosterSource) Roster(_ context.Context) ([]alerts.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byAnimal := make(map[string][]alerts.VaccinationRecord)
	for _, v := range r.s.vaccinations {
		rec := alerts.VaccinationRecord{
			ID:        v.ID,
			Vaccine:   r.s.vaccines[v.VaccineID].Name,
			AppliedOn: v.AppliedOn,
			Notes:     v.Notes,
		}
		if v.NextDue != nil {
			d := *v.NextDue
			rec.NextDue = &d
		}
		byAnimal[v.AnimalID] = append(byAnimal[v.AnimalID], rec)
	}

	animals := make([]cattle.Animal, 0, len(r.s.animals))
	for _, a := range r.s.animals {
		if a.Status == cattle.StatusActive {
			animals = append(animals, a)
		}
	}
	// orden de entrada determinista: el motor respeta el orden en empates
	sort.Slice(animals, func(i, j int) bool {
		if !animals[i].CreatedAt.Equal(animals[j].CreatedAt) {
			return animals[i].CreatedAt.Before(animals[j].CreatedAt)
		}
		return animals[i].ID < animals[j].ID
	})

	out := make([]alerts.Animal, 0, len(animals))
	for _, a := range animals {
		recs := byAnimal[a.ID]
		sort.Slice(recs, func(i, j int) bool {
			if !recs[i].AppliedOn.Equal(recs[j].AppliedOn) {
				return recs[i].AppliedOn.Before(recs[j].AppliedOn)
			}
			return recs[i].ID < recs[j].ID
		})
		out = append(out, alerts.Animal{
			ID:           a.ID,
			Name:         a.Name,
			TagNumber:    a.TagNumber,
			Vaccinations: recs,
		})
	}
	return out, nil
}
