package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"farm-dashboard/internal/domain/vaccines"
)

type VaccinesRepo struct {
	db *sql.DB
}

func NewVaccinesRepo(db *sql.DB) *VaccinesRepo {
	return &VaccinesRepo{db: db}
}

func (r *VaccinesRepo) CreateVaccine(ctx context.Context, v vaccines.Vaccine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vaccines (id, name, description, frequency_days, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, v.ID, v.Name, v.Description, v.FrequencyDays, v.CreatedAt)
	if pgErr, ok := pgError(err); ok && pgErr.Code == codeUniqueViolation {
		return vaccines.ErrDuplicateVaccine
	}
	return err
}

func (r *VaccinesRepo) GetVaccine(ctx context.Context, id string) (vaccines.Vaccine, error) {
	var v vaccines.Vaccine
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, frequency_days, created_at
		FROM vaccines
		WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.Description, &v.FrequencyDays, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return vaccines.Vaccine{}, vaccines.ErrVaccineNotFound
	}
	return v, err
}

func (r *VaccinesRepo) ListVaccines(ctx context.Context) ([]vaccines.Vaccine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, frequency_days, created_at
		FROM vaccines
		ORDER BY lower(name)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vaccines.Vaccine, 0)
	for rows.Next() {
		var v vaccines.Vaccine
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.FrequencyDays, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VaccinesRepo) CreateVaccination(ctx context.Context, v vaccines.Vaccination) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vaccinations (id, animal_id, vaccine_id, applied_on, next_due, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, v.ID, v.AnimalID, v.VaccineID, v.AppliedOn, v.NextDue, v.Notes, v.CreatedAt)

	if pgErr, ok := pgError(err); ok && pgErr.Code == codeForeignKeyViolation {
		if strings.Contains(pgErr.ConstraintName, "vaccine_id") {
			return vaccines.ErrVaccineNotFound
		}
		return vaccines.ErrAnimalNotFound
	}
	return err
}

func (r *VaccinesRepo) DeleteVaccination(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaccinations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return vaccines.ErrNotFound
	}
	return nil
}

func (r *VaccinesRepo) ListVaccinations(ctx context.Context, f vaccines.Filter) ([]vaccines.Vaccination, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			vn.id, vn.animal_id, vn.vaccine_id,
			a.name, vc.name,
			vn.applied_on, vn.next_due, vn.notes, vn.created_at
		FROM vaccinations vn
		JOIN animals a ON a.id = vn.animal_id
		JOIN vaccines vc ON vc.id = vn.vaccine_id
		WHERE 1=1`)

	args := []any{}
	argN := 1

	if id := strings.TrimSpace(f.AnimalID); id != "" {
		sb.WriteString(fmt.Sprintf(" AND vn.animal_id = $%d", argN))
		args = append(args, id)
	}

	sb.WriteString(" ORDER BY vn.next_due ASC NULLS LAST, vn.applied_on DESC, vn.id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vaccines.Vaccination, 0)
	for rows.Next() {
		var (
			v       vaccines.Vaccination
			nextDue sql.NullTime
		)
		if err := rows.Scan(
			&v.ID,
			&v.AnimalID,
			&v.VaccineID,
			&v.AnimalName,
			&v.VaccineName,
			&v.AppliedOn,
			&nextDue,
			&v.Notes,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}
		v.AppliedOn = v.AppliedOn.UTC()
		v.NextDue = nullDate(nextDue)
		out = append(out, v)
	}
	return out, rows.Err()
}

func nullDate(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	d := nt.Time.UTC()
	return &d
}
