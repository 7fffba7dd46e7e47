// Package sanitary expone las alertas de vacunación del hato sobre el roster actual.
package sanitary

import (
	"context"
	"fmt"
	"time"

	"farm-dashboard/internal/domain/alerts"
)

const maxUpcoming = 100

// RosterSource entrega los animales ya unidos con sus vacunaciones y nombre de vacuna.
type RosterSource interface {
	Roster(ctx context.Context) ([]alerts.Animal, error)
}

// SummaryObserver recibe los contadores de cada cálculo (métricas). Puede ser nil.
type SummaryObserver interface {
	SetAlertSummary(s alerts.Summary)
}

type Options struct {
	// Location define "hoy". nil => UTC.
	Location *time.Location
	// UpcomingLimit es el n por defecto de Upcoming.
	UpcomingLimit int
	Observer      SummaryObserver
}

type Service struct {
	roster   RosterSource
	loc      *time.Location
	limit    int
	observer SummaryObserver
	now      func() time.Time
}

func NewService(roster RosterSource, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	limit := opts.UpcomingLimit
	if limit <= 0 {
		limit = alerts.DefaultTopUpcoming
	}
	return &Service{
		roster:   roster,
		loc:      loc,
		limit:    limit,
		observer: opts.Observer,
		now:      time.Now,
	}
}

// Today es el día calendario actual en la zona de la finca.
func (s *Service) Today() time.Time {
	return alerts.DateOf(s.now().In(s.loc))
}

func (s *Service) UpcomingLimit() int { return s.limit }

// Snapshot es un cálculo completo sobre una sola lectura del roster.
type Snapshot struct {
	Today    time.Time
	Alerts   []alerts.Alert
	Summary  alerts.Summary
	Upcoming []alerts.Alert
}

func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	animals, today, err := s.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	list, err := alerts.ComputeAlerts(animals, today)
	if err != nil {
		return Snapshot{}, err
	}
	sum := s.observe(list)

	return Snapshot{Today: today, Alerts: list, Summary: sum, Upcoming: alerts.Truncate(list, s.limit)}, nil
}

func (s *Service) Alerts(ctx context.Context) ([]alerts.Alert, error) {
	animals, today, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	list, err := alerts.ComputeAlerts(animals, today)
	if err != nil {
		return nil, err
	}
	s.observe(list)
	return list, nil
}

func (s *Service) Summary(ctx context.Context) (alerts.Summary, error) {
	list, err := s.Alerts(ctx)
	if err != nil {
		return alerts.Summary{}, err
	}
	return alerts.Summarize(list), nil
}

// Upcoming devuelve las n alertas más urgentes; n <= 0 usa el límite configurado.
func (s *Service) Upcoming(ctx context.Context, n int) ([]alerts.Alert, error) {
	if n <= 0 {
		n = s.limit
	}
	if n > maxUpcoming {
		n = maxUpcoming
	}
	animals, today, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return alerts.TopUpcoming(animals, today, n)
}

// OverdueAnimals son los animales con alguna dosis cuya próxima fecha ya llegó (<= hoy).
// Es el contador "requieren vacunación" de la vista de ganado, distinto del bucket overdue.
func (s *Service) OverdueAnimals(ctx context.Context) ([]alerts.Animal, error) {
	animals, today, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]alerts.Animal, 0)
	for _, a := range animals {
		for _, v := range a.Vaccinations {
			if v.NextDue == nil {
				continue
			}
			if v.NextDue.IsZero() {
				return nil, &alerts.DateError{AnimalID: a.ID, VaccinationID: v.ID, Field: "next_due"}
			}
			if alerts.DaysBetween(today, *v.NextDue) <= 0 {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

func (s *Service) load(ctx context.Context) ([]alerts.Animal, time.Time, error) {
	animals, err := s.roster.Roster(ctx)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load roster: %w", err)
	}
	return animals, s.Today(), nil
}

func (s *Service) observe(list []alerts.Alert) alerts.Summary {
	sum := alerts.Summarize(list)
	if s.observer != nil {
		s.observer.SetAlertSummary(sum)
	}
	return sum
}
