package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"farm-dashboard/internal/domain/categories"
)

type categoriesRepo struct {
	s *Store
}

func NewCategoriesRepo(s *Store) categories.Repository {
	return &categoriesRepo{s: s}
}

func (r *categoriesRepo) Create(_ context.Context, c categories.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("category id required")
	}
	r.s.categories[c.ID] = c
	return nil
}

func (r *categoriesRepo) List(_ context.Context, sector string) ([]categories.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]categories.Category, 0)
	for _, c := range r.s.categories {
		if sector == "" || c.Sector == sector {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sector != out[j].Sector {
			return out[i].Sector < out[j].Sector
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
