package alerts

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDate = errors.New("invalid date")
)

// DateError indica qué registro trae una fecha mal formada.
type DateError struct {
	AnimalID      string
	VaccinationID string
	Field         string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: animal=%s vaccination=%s field=%s", ErrInvalidDate, e.AnimalID, e.VaccinationID, e.Field)
}

func (e *DateError) Unwrap() error { return ErrInvalidDate }

const dateLayout = "2006-01-02"

// DateOf reduce t a su fecha de calendario (leída en la zona de t) a medianoche UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween devuelve to - from en días enteros de calendario (con signo).
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// ParseDate acepta YYYY-MM-DD o RFC3339; en RFC3339 se conserva la fecha local del offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// FormatDate es la inversa de ParseDate para fechas de calendario.
func FormatDate(t time.Time) string {
	return DateOf(t).Format(dateLayout)
}
