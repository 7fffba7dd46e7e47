package categories

import "context"

type Repository interface {
	Create(ctx context.Context, c Category) error
	// List ordena por sector y nombre; sector vacío = todos.
	List(ctx context.Context, sector string) ([]Category, error)
}
