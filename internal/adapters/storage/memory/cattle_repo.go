package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"farm-dashboard/internal/domain/cattle"
)

type cattleRepo struct {
	s *Store
}

func NewCattleRepo(s *Store) cattle.Repository {
	return &cattleRepo{s: s}
}

func (r *cattleRepo) Create(_ context.Context, a cattle.Animal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.s.animals[a.ID]; exists {
		return errors.New("animal already exists")
	}
	r.s.animals[a.ID] = a
	return nil
}

func (r *cattleRepo) Update(_ context.Context, a cattle.Animal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.animals[a.ID]; !exists {
		return cattle.ErrNotFound
	}
	r.s.animals[a.ID] = a
	return nil
}

func (r *cattleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.animals[id]; !exists {
		return cattle.ErrNotFound
	}
	delete(r.s.animals, id)
	delete(r.s.weights, id)
	for vid, v := range r.s.vaccinations {
		if v.AnimalID == id {
			delete(r.s.vaccinations, vid)
		}
	}
	return nil
}

func (r *cattleRepo) GetByID(_ context.Context, id string) (cattle.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.animals[id]
	if !ok {
		return cattle.Animal{}, cattle.ErrNotFound
	}
	return a, nil
}

func (r *cattleRepo) List(_ context.Context, f cattle.Filter) ([]cattle.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]cattle.Animal, 0)
	for _, a := range r.s.animals {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(a.Name), q) &&
			!strings.Contains(strings.ToLower(a.TagNumber), q) {
			continue
		}
		out = append(out, a)
	}

	// Más recientes primero; id como desempate para que el orden sea estable
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *cattleRepo) AddWeight(_ context.Context, w cattle.WeightRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.animals[w.AnimalID]; !exists {
		return cattle.ErrNotFound
	}
	r.s.weights[w.AnimalID] = append(r.s.weights[w.AnimalID], w)
	return nil
}

func (r *cattleRepo) ListWeights(_ context.Context, animalID string) ([]cattle.WeightRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := append([]cattle.WeightRecord(nil), r.s.weights[animalID]...)
	if out == nil {
		out = make([]cattle.WeightRecord, 0)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
