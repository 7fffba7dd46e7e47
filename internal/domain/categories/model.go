package categories

import "time"

const (
	SectorPoultrySale    = "poultry_sale"
	SectorPoultryExpense = "poultry_expense"
)

type Category struct {
	ID        string
	Name      string
	Sector    string
	CreatedAt time.Time
}

// Defaults se siembran al arrancar si el sector está vacío.
var Defaults = map[string][]string{
	SectorPoultrySale:    {"Huevos", "Gallinas", "Pollos", "Gallinaza"},
	SectorPoultryExpense: {"Alimento", "Medicamentos", "Vacunas", "Mano de obra", "Servicios", "Mantenimiento"},
}
