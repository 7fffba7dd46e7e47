package poultry

import (
	"context"
	"errors"
	"strings"
	"time"

	"farm-dashboard/internal/domain/alerts"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("movement not found")
	ErrFlockNotSet     = errors.New("flock not set")
	ErrUnknownCategory = errors.New("unknown category")
)

// CategoryChecker valida categorías por sector. Lo cumple *categories.Service.
type CategoryChecker interface {
	Exists(ctx context.Context, sector, name string) (bool, error)
}

type Service struct {
	repo       Repository
	categories CategoryChecker // nil => categoría libre
	now        func() time.Time
}

func NewService(repo Repository, categories CategoryChecker) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		now:        time.Now,
	}
}

type CreateMovementInput struct {
	Kind        Kind
	Date        time.Time
	Description string
	Category    string
	Amount      float64
}

func (s *Service) CreateMovement(ctx context.Context, userID string, in CreateMovementInput) (Movement, error) {
	desc := strings.TrimSpace(in.Description)
	cat := strings.TrimSpace(in.Category)
	if !in.Kind.Valid() || in.Date.IsZero() || desc == "" || cat == "" || in.Amount <= 0 {
		return Movement{}, ErrInvalidInput
	}

	if s.categories != nil {
		ok, err := s.categories.Exists(ctx, in.Kind.Sector(), cat)
		if err != nil {
			return Movement{}, err
		}
		if !ok {
			return Movement{}, ErrUnknownCategory
		}
	}

	m := Movement{
		ID:          uuid.NewString(),
		Kind:        in.Kind,
		Date:        alerts.DateOf(in.Date),
		Description: desc,
		Category:    cat,
		Amount:      in.Amount,
		UserID:      strings.TrimSpace(userID),
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateMovement(ctx, m); err != nil {
		return Movement{}, err
	}
	return m, nil
}

func (s *Service) DeleteMovement(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.repo.DeleteMovement(ctx, id)
}

func (s *Service) ListMovements(ctx context.Context, f Filter) ([]Movement, error) {
	if f.Kind != "" && !f.Kind.Valid() {
		return nil, ErrInvalidInput
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, ErrInvalidInput
	}
	f.Query = strings.TrimSpace(f.Query)
	return s.repo.ListMovements(ctx, f)
}

// Totals aplica el filtro y suma.
func (s *Service) Totals(ctx context.Context, f Filter) (Totals, error) {
	items, err := s.ListMovements(ctx, f)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(items), nil
}

// GetFlock devuelve un lote vacío (Count 0) si todavía no se ha registrado.
func (s *Service) GetFlock(ctx context.Context) (Flock, error) {
	f, err := s.repo.GetFlock(ctx)
	if errors.Is(err, ErrFlockNotSet) {
		return Flock{}, nil
	}
	return f, err
}

// SetFlock actualiza el registro existente o lo crea.
func (s *Service) SetFlock(ctx context.Context, count int) (Flock, error) {
	if count < 0 {
		return Flock{}, ErrInvalidInput
	}

	now := s.now()
	f, err := s.repo.GetFlock(ctx)
	switch {
	case errors.Is(err, ErrFlockNotSet):
		f = Flock{ID: uuid.NewString(), CreatedAt: now}
	case err != nil:
		return Flock{}, err
	}

	f.Count = count
	f.UpdatedAt = now
	if err := s.repo.SaveFlock(ctx, f); err != nil {
		return Flock{}, err
	}
	return f, nil
}
