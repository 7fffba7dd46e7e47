package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farm-dashboard/internal/domain/alerts"
	"farm-dashboard/internal/domain/poultry"
	"farm-dashboard/internal/domain/sanitary"
	"farm-dashboard/internal/middleware"
	"farm-dashboard/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// -------------------------
// Fakes
// -------------------------

type testPoultry struct {
	movements []poultry.Movement
	flock     int
	err       error
}

func (p testPoultry) ListMovements(_ context.Context, f poultry.Filter) ([]poultry.Movement, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := make([]poultry.Movement, 0)
	for _, m := range p.movements {
		if !f.From.IsZero() && m.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && m.Date.After(f.To) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (p testPoultry) GetFlock(context.Context) (poultry.Flock, error) {
	return poultry.Flock{Count: p.flock}, nil
}

type testCattle int

func (c testCattle) CountActive(context.Context) (int, error) { return int(c), nil }

type testSanitary struct {
	snap sanitary.Snapshot
	err  error
}

func (s testSanitary) Today() time.Time { return today }

func (s testSanitary) Snapshot(context.Context) (sanitary.Snapshot, error) {
	return s.snap, s.err
}

func movements() []poultry.Movement {
	return []poultry.Movement{
		{Kind: poultry.KindSale, Date: day(2025, 3, 10), Category: "Huevos", Amount: 100},
		{Kind: poultry.KindSale, Date: day(2025, 3, 2), Category: "Huevos", Amount: 50},
		{Kind: poultry.KindExpense, Date: day(2025, 3, 3), Category: "Alimento", Amount: 60},
		{Kind: poultry.KindExpense, Date: day(2025, 3, 4), Category: "Vacunas", Amount: 60},
		{Kind: poultry.KindExpense, Date: day(2025, 3, 5), Category: "Alimento", Amount: 20},
		{Kind: poultry.KindSale, Date: day(2025, 1, 15), Category: "Gallinas", Amount: 400},
		{Kind: poultry.KindExpense, Date: day(2024, 9, 30), Category: "Alimento", Amount: 999}, // fuera de la serie
	}
}

func snapshot() sanitary.Snapshot {
	next := today.AddDate(0, 0, 3)
	a := alerts.Alert{
		Animal:        alerts.Animal{ID: "a1", Name: "Lucero"},
		Vaccination:   alerts.VaccinationRecord{ID: "v1", Vaccine: "Aftosa", AppliedOn: day(2024, 9, 10), NextDue: &next},
		DaysRemaining: 3,
		Urgency:       alerts.UrgencyUrgent,
	}
	return sanitary.Snapshot{
		Today:    today,
		Alerts:   []alerts.Alert{a},
		Summary:  alerts.Summary{Urgent: 1},
		Upcoming: []alerts.Alert{a},
	}
}

// -------------------------
// Tests
// -------------------------

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("", "")
	require.NoError(t, err)
	assert.Equal(t, Filter{Period: PeriodMonth, Sector: SectorAll}, f)

	f, err = ParseFilter(" YEAR ", "cattle")
	require.NoError(t, err)
	assert.Equal(t, Filter{Period: PeriodYear, Sector: SectorCattle}, f)

	_, err = ParseFilter("week", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseFilter("", "pigs")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRange(t *testing.T) {
	from, to := Range(PeriodDay, today)
	assert.Equal(t, today, from)
	assert.Equal(t, today, to)

	from, to = Range(PeriodMonth, time.Date(2024, 2, 20, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, day(2024, 2, 1), from)
	assert.Equal(t, day(2024, 2, 29), to)

	from, to = Range(PeriodYear, today)
	assert.Equal(t, day(2025, 1, 1), from)
	assert.Equal(t, day(2025, 12, 31), to)
}

func TestSummary_All(t *testing.T) {
	svc := NewService(testPoultry{movements: movements(), flock: 320}, testCattle(12), testSanitary{snap: snapshot()}, nil)

	sum, err := svc.Summary(context.Background(), Filter{})
	require.NoError(t, err)

	require.NotNil(t, sum.Finance)
	assert.Equal(t, poultry.Totals{Sales: 150, Expenses: 140, Profit: 10}, sum.Finance.Totals)
	assert.Equal(t, 320, sum.Finance.ActiveBirds)

	require.Len(t, sum.Finance.Monthly, SeriesMonths)
	assert.Equal(t, "2024-10", sum.Finance.Monthly[0].Month)
	assert.Equal(t, "2025-03", sum.Finance.Monthly[5].Month)
	assert.Equal(t, 400.0, sum.Finance.Monthly[3].Sales)
	assert.Equal(t, 0.0, sum.Finance.Monthly[0].Expenses)

	assert.Equal(t, []CategoryAmount{{"Alimento", 80}, {"Vacunas", 60}}, sum.Finance.ExpenseByCategory)

	require.NotNil(t, sum.Cattle)
	assert.Equal(t, 12, sum.Cattle.Registered)
	require.NotNil(t, sum.Cattle.Alerts)
	assert.Equal(t, 1, sum.Cattle.Alerts.Urgent)
	assert.Len(t, sum.Cattle.Upcoming, 1)
	assert.Empty(t, sum.Notices)
}

func TestSummary_SectorScopes(t *testing.T) {
	svc := NewService(testPoultry{movements: movements()}, testCattle(3), testSanitary{snap: snapshot()}, nil)

	p, err := svc.Summary(context.Background(), Filter{Sector: SectorPoultry})
	require.NoError(t, err)
	assert.NotNil(t, p.Finance)
	assert.Nil(t, p.Cattle)

	c, err := svc.Summary(context.Background(), Filter{Sector: SectorCattle, Period: PeriodDay})
	require.NoError(t, err)
	assert.Nil(t, c.Finance)
	assert.NotNil(t, c.Cattle)
}

func TestSummary_VaccinationFailureIsNonBlocking(t *testing.T) {
	bad := &alerts.DateError{AnimalID: "a1", VaccinationID: "v1", Field: "next_due"}
	svc := NewService(testPoultry{movements: movements()}, testCattle(3), testSanitary{err: bad}, nil)

	sum, err := svc.Summary(context.Background(), Filter{})
	require.NoError(t, err)
	require.NotNil(t, sum.Cattle)
	assert.Equal(t, 3, sum.Cattle.Registered)
	assert.Nil(t, sum.Cattle.Alerts)
	require.Len(t, sum.Notices, 1)
	assert.Contains(t, sum.Notices[0], "invalid date")
	assert.NotNil(t, sum.Finance)
}

func TestSummary_PoultryFailureFails(t *testing.T) {
	svc := NewService(testPoultry{err: errors.New("db down")}, testCattle(3), testSanitary{snap: snapshot()}, nil)

	_, err := svc.Summary(context.Background(), Filter{})
	assert.Error(t, err)
}

func TestSummaryHandler(t *testing.T) {
	svc := NewService(testPoultry{movements: movements(), flock: 10}, testCattle(2), testSanitary{snap: snapshot()}, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithClaims(req.Context(), auth.Claims{UserID: "farm-operator"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	RegisterRoutes(r, svc)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard?period=month&sector=all", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body summaryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "2025-03-01", body.From)
	assert.Equal(t, "2025-03-31", body.To)
	require.NotNil(t, body.Finance)
	assert.Equal(t, 10.0, body.Finance.Profit)
	require.NotNil(t, body.Cattle)
	require.Len(t, body.Cattle.Upcoming, 1)
	assert.Equal(t, "a1/v1", body.Cattle.Upcoming[0].Key)
	assert.Equal(t, "2025-03-13", body.Cattle.Upcoming[0].NextDue)
	assert.Empty(t, body.Notices)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard?period=week", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
