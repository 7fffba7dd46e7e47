// Package dashboard arma el resumen de la página principal a partir de los demás módulos.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"farm-dashboard/internal/domain/alerts"
	"farm-dashboard/internal/domain/poultry"
	"farm-dashboard/internal/domain/sanitary"
	"farm-dashboard/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type PoultryReader interface {
	ListMovements(ctx context.Context, f poultry.Filter) ([]poultry.Movement, error)
	GetFlock(ctx context.Context) (poultry.Flock, error)
}

type CattleCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type SanitaryReader interface {
	Today() time.Time
	Snapshot(ctx context.Context) (sanitary.Snapshot, error)
}

type Service struct {
	poultry  PoultryReader
	cattle   CattleCounter
	sanitary SanitaryReader
	log      logger.Logger
}

func NewService(p PoultryReader, c CattleCounter, s SanitaryReader, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{poultry: p, cattle: c, sanitary: s, log: log}
}

// ParseFilter aplica defaults (month, all) y valida.
func ParseFilter(period, sector string) (Filter, error) {
	f := Filter{
		Period: Period(strings.ToLower(strings.TrimSpace(period))),
		Sector: Sector(strings.ToLower(strings.TrimSpace(sector))),
	}
	if f.Period == "" {
		f.Period = PeriodMonth
	}
	if f.Sector == "" {
		f.Sector = SectorAll
	}
	switch f.Period {
	case PeriodDay, PeriodMonth, PeriodYear:
	default:
		return Filter{}, fmt.Errorf("%w: period must be day, month or year", ErrInvalidInput)
	}
	switch f.Sector {
	case SectorPoultry, SectorCattle, SectorAll:
	default:
		return Filter{}, fmt.Errorf("%w: sector must be poultry, cattle or all", ErrInvalidInput)
	}
	return f, nil
}

// Summary no falla si el cálculo de vacunación falla: omite ese bloque y agrega un aviso.
func (s *Service) Summary(ctx context.Context, f Filter) (Summary, error) {
	f, err := ParseFilter(string(f.Period), string(f.Sector))
	if err != nil {
		return Summary{}, err
	}

	today := s.sanitary.Today()
	from, to := Range(f.Period, today)
	out := Summary{Filter: f, Today: today, From: from, To: to, Notices: []string{}}

	if f.Sector != SectorCattle {
		fin, err := s.finance(ctx, today, from, to)
		if err != nil {
			return Summary{}, err
		}
		out.Finance = fin
	}

	if f.Sector != SectorPoultry {
		registered, err := s.cattle.CountActive(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("count cattle: %w", err)
		}
		out.Cattle = &Cattle{Registered: registered}

		snap, err := s.sanitary.Snapshot(ctx)
		if err != nil {
			s.log.Warn("dashboard: vaccination alerts unavailable", map[string]any{"error": err.Error()})
			out.Notices = append(out.Notices, "vaccination alerts unavailable: "+noticeReason(err))
		} else {
			sum := snap.Summary
			out.Cattle.Alerts = &sum
			out.Cattle.Upcoming = snap.Upcoming
		}
	}

	return out, nil
}

func (s *Service) finance(ctx context.Context, today, from, to time.Time) (*Finance, error) {
	inPeriod, err := s.poultry.ListMovements(ctx, poultry.Filter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	seriesFrom := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(SeriesMonths - 1), 0)
	seriesTo := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
	forSeries, err := s.poultry.ListMovements(ctx, poultry.Filter{From: seriesFrom, To: seriesTo})
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	flock, err := s.poultry.GetFlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("get flock: %w", err)
	}

	return &Finance{
		Totals:            poultry.ComputeTotals(inPeriod),
		ActiveBirds:       flock.Count,
		Monthly:           MonthlySeries(forSeries, today, SeriesMonths),
		ExpenseByCategory: ExpenseDistribution(inPeriod),
	}, nil
}

func noticeReason(err error) string {
	if errors.Is(err, alerts.ErrInvalidDate) {
		return "a vaccination record has an invalid date"
	}
	return "internal error"
}

func sortCategoryAmounts(items []CategoryAmount) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Amount != items[j].Amount {
			return items[i].Amount > items[j].Amount
		}
		return items[i].Category < items[j].Category
	})
}
