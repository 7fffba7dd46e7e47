// Package alerts clasifica las próximas dosis de vacunación del hato por urgencia.
//
// Es una transformación pura sobre un snapshot del roster; es segura para uso
// concurrente mientras el caller no mute ese snapshot.
package alerts

import (
	"sort"
	"time"
)

// Classify es la única regla de buckets; la usan todas las vistas.
func Classify(daysRemaining int) Urgency {
	switch {
	case daysRemaining < 0:
		return UrgencyOverdue
	case daysRemaining <= UrgentWithinDays:
		return UrgencyUrgent
	case daysRemaining <= UpcomingWithinDays:
		return UrgencyUpcoming
	default:
		return UrgencyScheduled
	}
}

// ComputeAlerts genera una alerta por cada vacunación con NextDue, ordenadas
// ascendentemente por DaysRemaining (las más vencidas primero). El orden entre
// empates respeta el orden de entrada.
func ComputeAlerts(animals []Animal, today time.Time) ([]Alert, error) {
	out := make([]Alert, 0)

	for _, a := range animals {
		for _, v := range a.Vaccinations {
			if v.AppliedOn.IsZero() {
				return nil, &DateError{AnimalID: a.ID, VaccinationID: v.ID, Field: "applied_on"}
			}
			if v.NextDue == nil {
				continue
			}
			if v.NextDue.IsZero() {
				return nil, &DateError{AnimalID: a.ID, VaccinationID: v.ID, Field: "next_due"}
			}

			days := DaysBetween(today, *v.NextDue)
			out = append(out, Alert{
				Animal:        a,
				Vaccination:   v,
				DaysRemaining: days,
				Urgency:       Classify(days),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysRemaining < out[j].DaysRemaining
	})

	return out, nil
}

// Summarize cuenta alertas por bucket.
func Summarize(alerts []Alert) Summary {
	var s Summary
	for _, a := range alerts {
		switch a.Urgency {
		case UrgencyOverdue:
			s.Overdue++
		case UrgencyUrgent:
			s.Urgent++
		case UrgencyUpcoming:
			s.Upcoming++
		case UrgencyScheduled:
			s.Scheduled++
		}
	}
	return s
}

// TopUpcoming recorta la lista global a n elementos. No excluye "scheduled":
// si hay menos de n vencidas/urgentes, las programadas completan la lista.
func TopUpcoming(animals []Animal, today time.Time, n int) ([]Alert, error) {
	all, err := ComputeAlerts(animals, today)
	if err != nil {
		return nil, err
	}
	return Truncate(all, n), nil
}

// Truncate corta una lista ya ordenada a sus primeras n alertas; n <= 0 => vacía.
func Truncate(list []Alert, n int) []Alert {
	if n <= 0 {
		return []Alert{}
	}
	if len(list) > n {
		return list[:n]
	}
	return list
}

// Filter devuelve las alertas de un bucket, conservando el orden.
func Filter(alerts []Alert, u Urgency) []Alert {
	out := make([]Alert, 0)
	for _, a := range alerts {
		if a.Urgency == u {
			out = append(out, a)
		}
	}
	return out
}

// ParseUrgency valida un bucket recibido por query string.
func ParseUrgency(s string) (Urgency, bool) {
	switch u := Urgency(s); u {
	case UrgencyOverdue, UrgencyUrgent, UrgencyUpcoming, UrgencyScheduled:
		return u, true
	default:
		return "", false
	}
}
