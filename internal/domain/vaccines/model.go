package vaccines

import "time"

// Vaccine es una entrada del catálogo.
type Vaccine struct {
	ID          string
	Name        string
	Description string
	// FrequencyDays es informativo: la próxima dosis siempre la fija el usuario.
	FrequencyDays int
	CreatedAt     time.Time
}

// Vaccination es una aplicación registrada. No se edita: se borra y se crea de nuevo.
type Vaccination struct {
	ID        string
	AnimalID  string
	VaccineID string

	// VaccineName y AnimalName se llenan al leer (join); no se persisten aquí.
	VaccineName string
	AnimalName  string

	AppliedOn time.Time
	NextDue   *time.Time // nil = sin próxima dosis
	Notes     string
	CreatedAt time.Time
}
