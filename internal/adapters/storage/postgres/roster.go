package postgres

import (
	"context"
	"database/sql"

	"farm-dashboard/internal/domain/alerts"
)

type RosterSource struct {
	db *sql.DB
}

// NewRosterSource arma el roster con un solo LEFT JOIN; animales sin vacunas quedan con lista vacía.
func NewRosterSource(db *sql.DB) *RosterSource {
	return &RosterSource{db: db}
}

func (r *RosterSource) Roster(ctx context.Context) ([]alerts.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			a.id, a.name, a.tag_number,
			vn.id, vc.name, vn.applied_on, vn.next_due, vn.notes
		FROM animals a
		LEFT JOIN vaccinations vn ON vn.animal_id = a.id
		LEFT JOIN vaccines vc ON vc.id = vn.vaccine_id
		WHERE a.status = 'active'
		ORDER BY a.created_at, a.id, vn.applied_on, vn.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]alerts.Animal, 0)
	for rows.Next() {
		var (
			a         alerts.Animal
			vID       sql.NullString
			vaccine   sql.NullString
			appliedOn sql.NullTime
			nextDue   sql.NullTime
			notes     sql.NullString
		)
		if err := rows.Scan(
			&a.ID, &a.Name, &a.TagNumber,
			&vID, &vaccine, &appliedOn, &nextDue, &notes,
		); err != nil {
			return nil, err
		}

		// filas ordenadas por animal: se agrupa sobre el último
		if n := len(out); n == 0 || out[n-1].ID != a.ID {
			a.Vaccinations = []alerts.VaccinationRecord{}
			out = append(out, a)
		}
		if !vID.Valid {
			continue
		}
		last := &out[len(out)-1]
		last.Vaccinations = append(last.Vaccinations, alerts.VaccinationRecord{
			ID:        vID.String,
			Vaccine:   vaccine.String,
			AppliedOn: appliedOn.Time.UTC(),
			NextDue:   nullDate(nextDue),
			Notes:     notes.String,
		})
	}
	return out, rows.Err()
}
