package vaccines

import "context"

type Filter struct {
	AnimalID string
}

type Repository interface {
	CreateVaccine(ctx context.Context, v Vaccine) error
	GetVaccine(ctx context.Context, id string) (Vaccine, error)
	// ListVaccines ordena por nombre.
	ListVaccines(ctx context.Context) ([]Vaccine, error)

	CreateVaccination(ctx context.Context, v Vaccination) error
	DeleteVaccination(ctx context.Context, id string) error
	// ListVaccinations ordena por próxima dosis ascendente, sin próxima dosis al final.
	ListVaccinations(ctx context.Context, f Filter) ([]Vaccination, error)
}
