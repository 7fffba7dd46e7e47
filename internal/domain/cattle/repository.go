package cattle

import "context"

// Filter para listar; Query busca en nombre y chapeta sin distinguir mayúsculas.
type Filter struct {
	Query  string
	Status Status
}

type Repository interface {
	Create(ctx context.Context, a Animal) error
	Update(ctx context.Context, a Animal) error
	// Delete borra también pesajes y vacunaciones del animal.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Animal, error)
	// List devuelve los más recientes primero.
	List(ctx context.Context, f Filter) ([]Animal, error)

	AddWeight(ctx context.Context, w WeightRecord) error
	ListWeights(ctx context.Context, animalID string) ([]WeightRecord, error)
}
