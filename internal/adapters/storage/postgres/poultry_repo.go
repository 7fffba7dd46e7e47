package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"farm-dashboard/internal/domain/poultry"
)

// flockID: la finca tiene un único lote registrado.
const flockID = "default"

type PoultryRepo struct {
	db *sql.DB
}

func NewPoultryRepo(db *sql.DB) *PoultryRepo {
	return &PoultryRepo{db: db}
}

func (r *PoultryRepo) CreateMovement(ctx context.Context, m poultry.Movement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO poultry_movements (
			id, kind, date, description, category, amount, user_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		m.ID,
		string(m.Kind),
		m.Date,
		m.Description,
		m.Category,
		m.Amount,
		m.UserID,
		m.CreatedAt,
	)
	return err
}

func (r *PoultryRepo) DeleteMovement(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM poultry_movements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return poultry.ErrNotFound
	}
	return nil
}

func (r *PoultryRepo) ListMovements(ctx context.Context, f poultry.Filter) ([]poultry.Movement, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, kind, date, description, category, amount, user_id, created_at
		FROM poultry_movements
		WHERE 1=1`)

	args := []any{}
	argN := 1

	if f.Kind != "" {
		sb.WriteString(fmt.Sprintf(" AND kind = $%d", argN))
		args = append(args, string(f.Kind))
		argN++
	}
	if !f.From.IsZero() {
		sb.WriteString(fmt.Sprintf(" AND date >= $%d", argN))
		args = append(args, f.From)
		argN++
	}
	if !f.To.IsZero() {
		sb.WriteString(fmt.Sprintf(" AND date <= $%d", argN))
		args = append(args, f.To)
		argN++
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		sb.WriteString(fmt.Sprintf(" AND (description ILIKE $%d OR category ILIKE $%d)", argN, argN))
		args = append(args, "%"+q+"%")
	}

	sb.WriteString(" ORDER BY date DESC, created_at DESC, id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]poultry.Movement, 0)
	for rows.Next() {
		var (
			m    poultry.Movement
			kind string
		)
		if err := rows.Scan(
			&m.ID,
			&kind,
			&m.Date,
			&m.Description,
			&m.Category,
			&m.Amount,
			&m.UserID,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.Kind = poultry.Kind(kind)
		m.Date = m.Date.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PoultryRepo) GetFlock(ctx context.Context) (poultry.Flock, error) {
	var f poultry.Flock
	err := r.db.QueryRowContext(ctx, `
		SELECT id, count, created_at, updated_at
		FROM poultry_flock
		WHERE id = $1
	`, flockID).Scan(&f.ID, &f.Count, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return poultry.Flock{}, poultry.ErrFlockNotSet
	}
	return f, err
}

func (r *PoultryRepo) SaveFlock(ctx context.Context, f poultry.Flock) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO poultry_flock (id, count, created_at, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE
		SET count = EXCLUDED.count, updated_at = EXCLUDED.updated_at
	`, flockID, f.Count, f.CreatedAt, f.UpdatedAt)
	return err
}
