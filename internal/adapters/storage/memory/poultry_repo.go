package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"farm-dashboard/internal/domain/poultry"
)

type poultryRepo struct {
	s *Store
}

func NewPoultryRepo(s *Store) poultry.Repository {
	return &poultryRepo{s: s}
}

func (r *poultryRepo) CreateMovement(_ context.Context, m poultry.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("movement id required")
	}
	if _, exists := r.s.movements[m.ID]; exists {
		return errors.New("movement already exists")
	}
	r.s.movements[m.ID] = m
	return nil
}

func (r *poultryRepo) DeleteMovement(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.movements[id]; !exists {
		return poultry.ErrNotFound
	}
	delete(r.s.movements, id)
	return nil
}

func (r *poultryRepo) ListMovements(_ context.Context, f poultry.Filter) ([]poultry.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]poultry.Movement, 0)
	for _, m := range r.s.movements {
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if !f.From.IsZero() && m.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && m.Date.After(f.To) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(m.Description), q) &&
			!strings.Contains(strings.ToLower(m.Category), q) {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *poultryRepo) GetFlock(_ context.Context) (poultry.Flock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.flock == nil {
		return poultry.Flock{}, poultry.ErrFlockNotSet
	}
	return *r.s.flock, nil
}

func (r *poultryRepo) SaveFlock(_ context.Context, f poultry.Flock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.flock = &f
	return nil
}
