package memory

import (
	"sync"

	"farm-dashboard/internal/domain/categories"
	"farm-dashboard/internal/domain/cattle"
	"farm-dashboard/internal/domain/poultry"
	"farm-dashboard/internal/domain/vaccines"
)

// Store guarda todo el estado en memoria bajo un solo lock, para que el
// borrado en cascada y el join del roster vean un estado consistente.
type Store struct {
	mu sync.RWMutex

	animals map[string]cattle.Animal
	weights map[string][]cattle.WeightRecord // por animal

	vaccines     map[string]vaccines.Vaccine
	vaccinations map[string]vaccines.Vaccination

	movements map[string]poultry.Movement
	flock     *poultry.Flock

	categories map[string]categories.Category
}

func NewStore() *Store {
	return &Store{
		animals:      make(map[string]cattle.Animal),
		weights:      make(map[string][]cattle.WeightRecord),
		vaccines:     make(map[string]vaccines.Vaccine),
		vaccinations: make(map[string]vaccines.Vaccination),
		movements:    make(map[string]poultry.Movement),
		categories:   make(map[string]categories.Category),
	}
}
