package dashboard

import (
	"time"

	"farm-dashboard/internal/domain/alerts"
	"farm-dashboard/internal/domain/poultry"
)

// Period del resumen financiero.
// @Enum day, month, year
type Period string

const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Sector que se muestra.
// @Enum poultry, cattle, all
type Sector string

const (
	SectorPoultry Sector = "poultry"
	SectorCattle  Sector = "cattle"
	SectorAll     Sector = "all"
)

// SeriesMonths es el largo de la serie ventas vs gastos.
const SeriesMonths = 6

type Filter struct {
	Period Period
	Sector Sector
}

type MonthPoint struct {
	Month    string  `json:"month"` // YYYY-MM
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
}

type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type Finance struct {
	Totals            poultry.Totals
	ActiveBirds       int
	Monthly           []MonthPoint
	ExpenseByCategory []CategoryAmount
}

type Cattle struct {
	Registered int
	// Alerts y Upcoming quedan nil si el cálculo de vacunas falló (ver Notices).
	Alerts   *alerts.Summary
	Upcoming []alerts.Alert
}

type Summary struct {
	Filter  Filter
	Today   time.Time
	From    time.Time
	To      time.Time
	Finance *Finance // nil si el sector no lo incluye
	Cattle  *Cattle
	Notices []string
}

// Range devuelve [from, to] (inclusivos) del periodo que contiene today.
func Range(p Period, today time.Time) (time.Time, time.Time) {
	today = alerts.DateOf(today)
	switch p {
	case PeriodDay:
		return today, today
	case PeriodYear:
		from := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, -1)
	default:
		from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, -1)
	}
}

// MonthlySeries agrupa por mes los n meses que terminan en el mes de today.
func MonthlySeries(movements []poultry.Movement, today time.Time, n int) []MonthPoint {
	if n <= 0 {
		return []MonthPoint{}
	}
	today = alerts.DateOf(today)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)

	out := make([]MonthPoint, n)
	idx := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		out[i] = MonthPoint{Month: key}
		idx[key] = i
	}

	for _, m := range movements {
		i, ok := idx[m.Date.Format("2006-01")]
		if !ok {
			continue
		}
		switch m.Kind {
		case poultry.KindSale:
			out[i].Sales += m.Amount
		case poultry.KindExpense:
			out[i].Expenses += m.Amount
		}
	}
	return out
}

// ExpenseDistribution suma gastos por categoría, de mayor a menor.
func ExpenseDistribution(movements []poultry.Movement) []CategoryAmount {
	sums := map[string]float64{}
	for _, m := range movements {
		if m.Kind == poultry.KindExpense {
			sums[m.Category] += m.Amount
		}
	}

	out := make([]CategoryAmount, 0, len(sums))
	for c, a := range sums {
		out = append(out, CategoryAmount{Category: c, Amount: a})
	}
	sortCategoryAmounts(out)
	return out
}
