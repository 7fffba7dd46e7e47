package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"farm-dashboard/internal/domain/cattle"
)

type CattleRepo struct {
	db *sql.DB
}

func NewCattleRepo(db *sql.DB) *CattleRepo {
	return &CattleRepo{db: db}
}

const animalColumns = `
	id, name, tag_number,
	entry_date, entry_age_months, initial_weight,
	status, notes,
	created_at, updated_at`

func (r *CattleRepo) Create(ctx context.Context, a cattle.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.Name,
		a.TagNumber,
		a.EntryDate,
		a.EntryAgeMonths,
		a.InitialWeight,
		string(a.Status),
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *CattleRepo) Update(ctx context.Context, a cattle.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			name = $2,
			tag_number = $3,
			entry_date = $4,
			entry_age_months = $5,
			initial_weight = $6,
			status = $7,
			notes = $8,
			updated_at = $9
		WHERE id = $1
	`,
		a.ID,
		a.Name,
		a.TagNumber,
		a.EntryDate,
		a.EntryAgeMonths,
		a.InitialWeight,
		string(a.Status),
		a.Notes,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cattle.ErrNotFound
	}
	return nil
}

// Delete: pesajes y vacunaciones caen por ON DELETE CASCADE.
func (r *CattleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cattle.ErrNotFound
	}
	return nil
}

func (r *CattleRepo) GetByID(ctx context.Context, id string) (cattle.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cattle.Animal{}, cattle.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return cattle.Animal{}, cattle.ErrNotFound
	}
	return a, err
}

func (r *CattleRepo) List(ctx context.Context, f cattle.Filter) ([]cattle.Animal, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + animalColumns + ` FROM animals WHERE 1=1`)

	args := []any{}
	argN := 1

	if f.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(f.Status))
		argN++
	}

	// q: nombre o chapeta
	if q := strings.TrimSpace(f.Query); q != "" {
		sb.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR tag_number ILIKE $%d)", argN, argN))
		args = append(args, "%"+q+"%")
	}

	sb.WriteString(" ORDER BY created_at DESC, id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]cattle.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *CattleRepo) AddWeight(ctx context.Context, w cattle.WeightRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weight_records (id, animal_id, weight, date, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, w.ID, w.AnimalID, w.Weight, w.Date, w.CreatedAt)
	return err
}

func (r *CattleRepo) ListWeights(ctx context.Context, animalID string) ([]cattle.WeightRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, animal_id, weight, date, created_at
		FROM weight_records
		WHERE animal_id = $1
		ORDER BY date, created_at
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]cattle.WeightRecord, 0)
	for rows.Next() {
		var w cattle.WeightRecord
		if err := rows.Scan(&w.ID, &w.AnimalID, &w.Weight, &w.Date, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.Date = w.Date.UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s rowScanner) (cattle.Animal, error) {
	var a cattle.Animal
	var status string
	if err := s.Scan(
		&a.ID,
		&a.Name,
		&a.TagNumber,
		&a.EntryDate,
		&a.EntryAgeMonths,
		&a.InitialWeight,
		&status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return cattle.Animal{}, err
	}
	// ojo: date llega como medianoche UTC
	a.EntryDate = a.EntryDate.UTC()
	a.Status = cattle.Status(status)
	return a, nil
}
