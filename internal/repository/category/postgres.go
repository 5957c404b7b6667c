package category

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id::text, name, COALESCE(image_url, ''), created_at
FROM categories
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, image_url)
VALUES ($1, NULLIF($2, ''))
ON CONFLICT (name) DO UPDATE
SET image_url = COALESCE(NULLIF(EXCLUDED.image_url, ''), categories.image_url)
RETURNING id::text, created_at, COALESCE(image_url, '')
`
	out := c
	if err := r.pool.QueryRow(ctx, q, c.Name, c.ImageURL).Scan(&out.ID, &out.CreatedAt, &out.ImageURL); err != nil {
		return nil, err
	}
	return &out, nil
}
