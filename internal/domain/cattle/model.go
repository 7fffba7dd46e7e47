package cattle

import (
	"math"
	"time"

	"farm-dashboard/internal/domain/alerts"
)

// Status del animal dentro de la finca.
// @Enum active, sold, deceased
type Status string

const (
	StatusActive   Status = "active"
	StatusSold     Status = "sold"
	StatusDeceased Status = "deceased"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSold, StatusDeceased:
		return true
	}
	return false
}

// Animal es una res registrada.
type Animal struct {
	ID        string
	Name      string
	TagNumber string // chapeta

	EntryDate      time.Time // fecha de ingreso a la finca (día calendario)
	EntryAgeMonths int       // edad al ingreso
	InitialWeight  float64   // kg al ingreso

	Status Status
	Notes  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeightRecord es un pesaje posterior al ingreso.
type WeightRecord struct {
	ID        string
	AnimalID  string
	Weight    float64
	Date      time.Time
	CreatedAt time.Time
}

// CurrentAgeMonths = edad al ingreso + meses completos desde el ingreso.
func CurrentAgeMonths(a Animal, today time.Time) int {
	return a.EntryAgeMonths + monthsBetween(alerts.DateOf(a.EntryDate), alerts.DateOf(today))
}

// DaysOnFarm nunca es negativo (ingreso con fecha futura => 0).
func DaysOnFarm(a Animal, today time.Time) int {
	d := alerts.DaysBetween(a.EntryDate, today)
	if d < 0 {
		return 0
	}
	return d
}

// AverageInitialWeight redondea al kg; 0 si no hay animales.
func AverageInitialWeight(animals []Animal) int {
	if len(animals) == 0 {
		return 0
	}
	var sum float64
	for _, a := range animals {
		sum += a.InitialWeight
	}
	return int(math.Round(sum / float64(len(animals))))
}

func monthsBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	m := (to.Year()-from.Year())*12 + int(to.Month()-from.Month())
	if to.Day() < from.Day() {
		m--
	}
	if m < 0 {
		return 0
	}
	return m
}
