package categories

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx, "")
}

func (s *Service) ListBySector(ctx context.Context, sector string) ([]Category, error) {
	sector = strings.TrimSpace(sector)
	if sector == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, sector)
}

// Exists compara nombres sin distinguir mayúsculas. Si el sector no tiene
// categorías configuradas, cualquier nombre es válido.
func (s *Service) Exists(ctx context.Context, sector, name string) (bool, error) {
	items, err := s.ListBySector(ctx, sector)
	if err != nil {
		return false, err
	}
	if len(items) == 0 {
		return true, nil
	}
	name = strings.TrimSpace(name)
	for _, c := range items {
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// Seed crea las categorías por defecto de los sectores que estén vacíos.
func (s *Service) Seed(ctx context.Context, defaults map[string][]string) (int, error) {
	sectors := make([]string, 0, len(defaults))
	for sector := range defaults {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	created := 0
	for _, sector := range sectors {
		existing, err := s.repo.List(ctx, sector)
		if err != nil {
			return created, err
		}
		if len(existing) > 0 {
			continue
		}
		for _, name := range defaults[sector] {
			c := Category{
				ID:        uuid.NewString(),
				Name:      name,
				Sector:    sector,
				CreatedAt: s.now(),
			}
			if err := s.repo.Create(ctx, c); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
