package poultry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	movements []Movement
	flock     *Flock
	saves     int
}

func (r *testRepo) CreateMovement(_ context.Context, m Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *testRepo) DeleteMovement(_ context.Context, id string) error {
	for i, m := range r.movements {
		if m.ID == id {
			r.movements = append(r.movements[:i], r.movements[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *testRepo) ListMovements(_ context.Context, f Filter) ([]Movement, error) {
	out := make([]Movement, 0)
	for _, m := range r.movements {
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(m.Description+" "+m.Category), strings.ToLower(f.Query)) {
			continue
		}
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

func (r *testRepo) GetFlock(context.Context) (Flock, error) {
	if r.flock == nil {
		return Flock{}, ErrFlockNotSet
	}
	return *r.flock, nil
}

func (r *testRepo) SaveFlock(_ context.Context, f Flock) error {
	r.saves++
	r.flock = &f
	return nil
}

type testCategories map[string][]string

func (c testCategories) Exists(_ context.Context, sector, name string) (bool, error) {
	for _, n := range c[sector] {
		if strings.EqualFold(n, name) {
			return true, nil
		}
	}
	return false, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(cats CategoryChecker) (*Service, *testRepo) {
	repo := &testRepo{}
	svc := NewService(repo, cats)
	svc.now = func() time.Time { return day(2025, 3, 10) }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestCreateMovement(t *testing.T) {
	cats := testCategories{
		"poultry_sale":    {"Huevos"},
		"poultry_expense": {"Alimento"},
	}
	svc, _ := newTestService(cats)
	ctx := context.Background()

	m, err := svc.CreateMovement(ctx, "farm-operator", CreateMovementInput{
		Kind: KindSale, Date: day(2025, 3, 1), Description: "Venta cubetas", Category: "huevos", Amount: 120000,
	})
	require.NoError(t, err)
	assert.Equal(t, "farm-operator", m.UserID)
	assert.NotEmpty(t, m.ID)

	// la categoría de venta no vale para gastos
	_, err = svc.CreateMovement(ctx, "farm-operator", CreateMovementInput{
		Kind: KindExpense, Date: day(2025, 3, 1), Description: "x", Category: "Huevos", Amount: 10,
	})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	bad := []CreateMovementInput{
		{Kind: "gift", Date: day(2025, 3, 1), Description: "x", Category: "Huevos", Amount: 1},
		{Kind: KindSale, Description: "x", Category: "Huevos", Amount: 1},
		{Kind: KindSale, Date: day(2025, 3, 1), Description: " ", Category: "Huevos", Amount: 1},
		{Kind: KindSale, Date: day(2025, 3, 1), Description: "x", Category: "", Amount: 1},
		{Kind: KindSale, Date: day(2025, 3, 1), Description: "x", Category: "Huevos", Amount: 0},
	}
	for i, in := range bad {
		_, err := svc.CreateMovement(ctx, "farm-operator", in)
		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
	}
}

func TestTotals(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	for _, in := range []CreateMovementInput{
		{Kind: KindSale, Date: day(2025, 2, 10), Description: "Huevos", Category: "Huevos", Amount: 500},
		{Kind: KindSale, Date: day(2025, 3, 2), Description: "Gallinas", Category: "Aves", Amount: 300},
		{Kind: KindExpense, Date: day(2025, 3, 3), Description: "Concentrado", Category: "Alimento", Amount: 450},
	} {
		_, err := svc.CreateMovement(ctx, "u", in)
		require.NoError(t, err)
	}

	all, err := svc.Totals(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{Sales: 800, Expenses: 450, Profit: 350}, all)

	march, err := svc.Totals(ctx, Filter{From: day(2025, 3, 1), To: day(2025, 3, 31)})
	require.NoError(t, err)
	assert.Equal(t, Totals{Sales: 300, Expenses: 450, Profit: -150}, march)

	_, err = svc.Totals(ctx, Filter{From: day(2025, 3, 31), To: day(2025, 3, 1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ListMovements(ctx, Filter{Kind: "gift"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFlock_Upsert(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	f, err := svc.GetFlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Count)

	first, err := svc.SetFlock(ctx, 350)
	require.NoError(t, err)
	second, err := svc.SetFlock(ctx, 340)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 340, repo.flock.Count)
	assert.Equal(t, 2, repo.saves)

	_, err = svc.SetFlock(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteMovement(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	m, err := svc.CreateMovement(ctx, "u", CreateMovementInput{Kind: KindSale, Date: day(2025, 3, 1), Description: "x", Category: "y", Amount: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMovement(ctx, m.ID))
	assert.Empty(t, repo.movements)
	assert.ErrorIs(t, svc.DeleteMovement(ctx, m.ID), ErrNotFound)
}
