package cattle

import (
	"context"
	"errors"
	"strings"
	"time"

	"farm-dashboard/internal/domain/alerts"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("animal not found")
)

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService usa loc para calcular "hoy" (edad, días en finca). nil => UTC.
func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

// Today es el día calendario actual en la zona de la finca.
func (s *Service) Today() time.Time {
	return alerts.DateOf(s.now().In(s.loc))
}

type CreateInput struct {
	Name           string
	TagNumber      string
	EntryDate      time.Time
	EntryAgeMonths int
	InitialWeight  float64
	Status         Status // vacío => active
	Notes          string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Animal, error) {
	name := strings.TrimSpace(in.Name)
	tag := strings.TrimSpace(in.TagNumber)
	if name == "" || tag == "" {
		return Animal{}, ErrInvalidInput
	}
	if in.EntryDate.IsZero() || in.EntryAgeMonths < 0 || in.InitialWeight <= 0 {
		return Animal{}, ErrInvalidInput
	}

	status := in.Status
	if status == "" {
		status = StatusActive
	}
	if !status.Valid() {
		return Animal{}, ErrInvalidInput
	}

	now := s.now()
	a := Animal{
		ID:             uuid.NewString(),
		Name:           name,
		TagNumber:      tag,
		EntryDate:      alerts.DateOf(in.EntryDate),
		EntryAgeMonths: in.EntryAgeMonths,
		InitialWeight:  in.InitialWeight,
		Status:         status,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// UpdateInput usa punteros para PATCH real: nil = no tocar.
type UpdateInput struct {
	Name           *string
	TagNumber      *string
	EntryDate      *time.Time
	EntryAgeMonths *int
	InitialWeight  *float64
	Status         *Status
	Notes          *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Animal, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return Animal{}, ErrInvalidInput
		}
		a.Name = v
	}
	if in.TagNumber != nil {
		v := strings.TrimSpace(*in.TagNumber)
		if v == "" {
			return Animal{}, ErrInvalidInput
		}
		a.TagNumber = v
	}
	if in.EntryDate != nil {
		if in.EntryDate.IsZero() {
			return Animal{}, ErrInvalidInput
		}
		a.EntryDate = alerts.DateOf(*in.EntryDate)
	}
	if in.EntryAgeMonths != nil {
		if *in.EntryAgeMonths < 0 {
			return Animal{}, ErrInvalidInput
		}
		a.EntryAgeMonths = *in.EntryAgeMonths
	}
	if in.InitialWeight != nil {
		if *in.InitialWeight <= 0 {
			return Animal{}, ErrInvalidInput
		}
		a.InitialWeight = *in.InitialWeight
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return Animal{}, ErrInvalidInput
		}
		a.Status = *in.Status
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	if strings.TrimSpace(id) == "" {
		return Animal{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Animal, error) {
	f.Query = strings.TrimSpace(f.Query)
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, f)
}

// CountActive es lo que el dashboard muestra como "ganado registrado".
func (s *Service) CountActive(ctx context.Context) (int, error) {
	items, err := s.repo.List(ctx, Filter{Status: StatusActive})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

type WeightInput struct {
	Weight float64
	Date   time.Time
}

func (s *Service) AddWeight(ctx context.Context, animalID string, in WeightInput) (WeightRecord, error) {
	if in.Weight <= 0 || in.Date.IsZero() {
		return WeightRecord{}, ErrInvalidInput
	}
	if _, err := s.GetByID(ctx, animalID); err != nil {
		return WeightRecord{}, err
	}

	w := WeightRecord{
		ID:        uuid.NewString(),
		AnimalID:  animalID,
		Weight:    in.Weight,
		Date:      alerts.DateOf(in.Date),
		CreatedAt: s.now(),
	}
	if err := s.repo.AddWeight(ctx, w); err != nil {
		return WeightRecord{}, err
	}
	return w, nil
}

func (s *Service) ListWeights(ctx context.Context, animalID string) ([]WeightRecord, error) {
	if _, err := s.GetByID(ctx, animalID); err != nil {
		return nil, err
	}
	return s.repo.ListWeights(ctx, animalID)
}
