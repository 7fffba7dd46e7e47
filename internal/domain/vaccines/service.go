package vaccines

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farm-dashboard/internal/domain/alerts"
	"farm-dashboard/internal/domain/cattle"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("vaccination not found")
	ErrVaccineNotFound   = errors.New("vaccine not found")
	ErrAnimalNotFound    = errors.New("animal not found")
	ErrDuplicateVaccine  = errors.New("vaccine already exists")
	ErrNextDueBeforeDose = errors.New("next_due must not be before applied_on")
)

// AnimalGetter lo cumple *cattle.Service.
type AnimalGetter interface {
	GetByID(ctx context.Context, id string) (cattle.Animal, error)
}

type Service struct {
	repo    Repository
	animals AnimalGetter
	now     func() time.Time
}

func NewService(repo Repository, animals AnimalGetter) *Service {
	return &Service{
		repo:    repo,
		animals: animals,
		now:     time.Now,
	}
}

type CreateVaccineInput struct {
	Name          string
	Description   string
	FrequencyDays int
}

func (s *Service) CreateVaccine(ctx context.Context, in CreateVaccineInput) (Vaccine, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.FrequencyDays < 0 {
		return Vaccine{}, ErrInvalidInput
	}

	existing, err := s.repo.ListVaccines(ctx)
	if err != nil {
		return Vaccine{}, err
	}
	for _, v := range existing {
		if strings.EqualFold(v.Name, name) {
			return Vaccine{}, ErrDuplicateVaccine
		}
	}

	v := Vaccine{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		FrequencyDays: in.FrequencyDays,
		CreatedAt:     s.now(),
	}
	if err := s.repo.CreateVaccine(ctx, v); err != nil {
		return Vaccine{}, err
	}
	return v, nil
}

func (s *Service) ListVaccines(ctx context.Context) ([]Vaccine, error) {
	return s.repo.ListVaccines(ctx)
}

type RecordInput struct {
	AnimalID  string
	VaccineID string
	AppliedOn time.Time
	NextDue   *time.Time
	Notes     string
}

func (s *Service) RecordVaccination(ctx context.Context, in RecordInput) (Vaccination, error) {
	animalID := strings.TrimSpace(in.AnimalID)
	vaccineID := strings.TrimSpace(in.VaccineID)
	if animalID == "" || vaccineID == "" || in.AppliedOn.IsZero() {
		return Vaccination{}, ErrInvalidInput
	}

	applied := alerts.DateOf(in.AppliedOn)
	var next *time.Time
	if in.NextDue != nil {
		if in.NextDue.IsZero() {
			return Vaccination{}, ErrInvalidInput
		}
		d := alerts.DateOf(*in.NextDue)
		if d.Before(applied) {
			return Vaccination{}, ErrNextDueBeforeDose
		}
		next = &d
	}

	a, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, cattle.ErrNotFound) {
			return Vaccination{}, ErrAnimalNotFound
		}
		return Vaccination{}, fmt.Errorf("lookup animal: %w", err)
	}
	vac, err := s.repo.GetVaccine(ctx, vaccineID)
	if err != nil {
		return Vaccination{}, err
	}

	v := Vaccination{
		ID:          uuid.NewString(),
		AnimalID:    a.ID,
		VaccineID:   vac.ID,
		VaccineName: vac.Name,
		AnimalName:  a.Name,
		AppliedOn:   applied,
		NextDue:     next,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateVaccination(ctx, v); err != nil {
		return Vaccination{}, err
	}
	return v, nil
}

func (s *Service) DeleteVaccination(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.repo.DeleteVaccination(ctx, id)
}

func (s *Service) ListVaccinations(ctx context.Context, f Filter) ([]Vaccination, error) {
	f.AnimalID = strings.TrimSpace(f.AnimalID)
	return s.repo.ListVaccinations(ctx, f)
}

// LastVaccination devuelve la aplicación más reciente del animal.
func (s *Service) LastVaccination(ctx context.Context, animalID string) (Vaccination, error) {
	items, err := s.ListVaccinations(ctx, Filter{AnimalID: animalID})
	if err != nil {
		return Vaccination{}, err
	}
	if len(items) == 0 {
		return Vaccination{}, ErrNotFound
	}

	last := items[0]
	for _, v := range items[1:] {
		if v.AppliedOn.After(last.AppliedOn) ||
			(v.AppliedOn.Equal(last.AppliedOn) && v.CreatedAt.After(last.CreatedAt)) {
			last = v
		}
	}
	return last, nil
}
