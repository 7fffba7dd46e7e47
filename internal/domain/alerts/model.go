package alerts

import "time"

// Urgency clasifica una alerta según los días que faltan para la próxima dosis.
type Urgency string

const (
	UrgencyOverdue   Urgency = "overdue"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyUpcoming  Urgency = "upcoming"
	UrgencyScheduled Urgency = "scheduled"
)

// Umbrales inclusivos (en días).
const (
	UrgentWithinDays   = 7
	UpcomingWithinDays = 30

	// DefaultTopUpcoming es el tamaño de la lista "próximas vacunaciones" del panel.
	DefaultTopUpcoming = 5
)

// Animal es la vista de solo lectura que consume el motor.
type Animal struct {
	ID           string
	Name         string
	TagNumber    string
	Vaccinations []VaccinationRecord
}

// VaccinationRecord es una dosis aplicada. NextDue nil = sin refuerzo programado.
type VaccinationRecord struct {
	ID        string
	Vaccine   string
	AppliedOn time.Time
	NextDue   *time.Time
	Notes     string
}

// Alert es una proyección derivada; no se persiste.
type Alert struct {
	Animal        Animal
	Vaccination   VaccinationRecord
	DaysRemaining int
	Urgency       Urgency
}

// Key identifica la alerta para render/deduplicación.
func (a Alert) Key() string {
	return a.Animal.ID + "/" + a.Vaccination.ID
}

// Summary son los contadores por bucket que muestra el panel.
type Summary struct {
	Overdue   int `json:"overdue"`
	Urgent    int `json:"urgent"`
	Upcoming  int `json:"upcoming"`
	Scheduled int `json:"scheduled"`
}
