package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByIdentity(ctx context.Context, identity string) (*domain.Cart, error) {
	const cartQuery = `
SELECT id::text, identity, created_at, updated_at
FROM carts
WHERE identity = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, identity).Scan(
		&cart.ID,
		&cart.Identity,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, product_id::text, quantity, snapshot
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		var productID string
		if err := rows.Scan(&line.ID, &productID, &line.Quantity, &line.Snapshot); err != nil {
			return nil, err
		}
		line.Snapshot.ProductID = productID
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *postgresRepo) AddOrIncrement(ctx context.Context, identity, productID string, delta int, snap *domain.Snapshot) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cartID, err := ensureCart(ctx, tx, identity)
	if err != nil {
		return err
	}

	var lineID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
FOR UPDATE
`, cartID, productID).Scan(&lineID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	switch {
	case err == nil:
		newQty := existingQty + delta
		if newQty <= 0 {
			if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1`, lineID); err != nil {
				return err
			}
		} else {
			if _, err := tx.Exec(ctx, `UPDATE cart_lines SET quantity = $1 WHERE id = $2`, newQty, lineID); err != nil {
				return err
			}
		}
	case delta > 0 && snap != nil:
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, quantity, snapshot)
VALUES ($1, $2, $3, $4)
`, cartID, productID, delta, *snap); err != nil {
			return err
		}
	default:
		// Decrement of an absent line is a no-op, not an error.
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) SetQuantity(ctx context.Context, identity, productID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cartID, err := ensureCart(ctx, tx, identity)
	if err != nil {
		return err
	}

	if quantity < 1 {
		if _, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	cmd, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE cart_id = $2 AND product_id = $3
`, quantity, cartID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Remove(ctx context.Context, identity, productID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = (SELECT id FROM carts WHERE identity = $1) AND product_id = $2
`, identity, productID)
	return err
}

func (r *postgresRepo) Clear(ctx context.Context, identity string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = (SELECT id FROM carts WHERE identity = $1)
`, identity)
	return err
}

// ensureCart upserts the cart row for the identity and returns its id.
func ensureCart(ctx context.Context, tx pgx.Tx, identity string) (string, error) {
	const q = `
INSERT INTO carts (identity)
VALUES ($1)
ON CONFLICT (identity) DO UPDATE SET updated_at = now()
RETURNING id::text
`
	var cartID string
	if err := tx.QueryRow(ctx, q, identity).Scan(&cartID); err != nil {
		return "", err
	}
	return cartID, nil
}
