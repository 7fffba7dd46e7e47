package postgres

import (
	"context"
	"database/sql"

	"farm-dashboard/internal/domain/categories"
)

type CategoriesRepo struct {
	db *sql.DB
}

func NewCategoriesRepo(db *sql.DB) *CategoriesRepo {
	return &CategoriesRepo{db: db}
}

func (r *CategoriesRepo) Create(ctx context.Context, c categories.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, sector, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT DO NOTHING
	`, c.ID, c.Name, c.Sector, c.CreatedAt)
	return err
}

// List con sector vacío devuelve todas.
func (r *CategoriesRepo) List(ctx context.Context, sector string) ([]categories.Category, error) {
	query := `SELECT id, name, sector, created_at FROM categories`
	args := []any{}
	if sector != "" {
		query += ` WHERE sector = $1`
		args = append(args, sector)
	}
	query += ` ORDER BY sector, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]categories.Category, 0)
	for rows.Next() {
		var c categories.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Sector, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
