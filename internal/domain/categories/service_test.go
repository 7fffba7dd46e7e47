package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	items []Category
}

func (r *testRepo) Create(_ context.Context, c Category) error {
	r.items = append(r.items, c)
	return nil
}

func (r *testRepo) List(_ context.Context, sector string) ([]Category, error) {
	out := make([]Category, 0)
	for _, c := range r.items {
		if sector == "" || c.Sector == sector {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestSeed_OnlyEmptySectors(t *testing.T) {
	repo := &testRepo{items: []Category{{ID: "x", Name: "Propia", Sector: SectorPoultrySale}}}
	svc := NewService(repo)

	n, err := svc.Seed(context.Background(), Defaults)
	require.NoError(t, err)
	assert.Equal(t, len(Defaults[SectorPoultryExpense]), n)

	sales, err := svc.ListBySector(context.Background(), SectorPoultrySale)
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	// idempotente
	n, err = svc.Seed(context.Background(), Defaults)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestExists(t *testing.T) {
	svc := NewService(&testRepo{})
	ctx := context.Background()

	// sector sin categorías => libre
	ok, err := svc.Exists(ctx, SectorPoultrySale, "Lo que sea")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Seed(ctx, Defaults)
	require.NoError(t, err)

	ok, err = svc.Exists(ctx, SectorPoultryExpense, " alimento ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(ctx, SectorPoultryExpense, "Huevos")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Exists(ctx, "", "Huevos")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
