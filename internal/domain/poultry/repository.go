package poultry

import (
	"context"
	"time"
)

// Filter de movimientos. From/To son inclusivos; zero = sin límite.
type Filter struct {
	Kind  Kind
	Query string // descripción o categoría
	From  time.Time
	To    time.Time
}

type Repository interface {
	CreateMovement(ctx context.Context, m Movement) error
	DeleteMovement(ctx context.Context, id string) error
	// ListMovements devuelve los más recientes primero (fecha, luego creación).
	ListMovements(ctx context.Context, f Filter) ([]Movement, error)

	// GetFlock devuelve ErrFlockNotSet si aún no hay registro.
	GetFlock(ctx context.Context) (Flock, error)
	SaveFlock(ctx context.Context, f Flock) error
}
