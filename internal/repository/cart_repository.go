package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

// ErrQuantityOutOfRange is returned when a stored quantity would overflow
var ErrQuantityOutOfRange = errors.New("cart item quantity out of range")

// CartRepository defines the interface for persisted cart references
type CartRepository interface {
	SaveAll(ctx context.Context, items []domain.CartItem) error
	FindByOwner(ctx context.Context, userID int64) ([]domain.CartItem, error)
	CountByOwner(ctx context.Context, userID int64) (int, error)
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// SaveAll stores the items in one transaction. A second reference to the same
// (owner, product, product type) adds to the stored quantity.
func (r *cartRepository) SaveAll(ctx context.Context, items []domain.CartItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO cart_items (id, user_id, product_id, product_type_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id, product_type_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	for i := range items {
		item := &items[i]
		if item.ID == uuid.Nil {
			// v7 ids sort in insertion order
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate cart item id: %w", err)
			}
			item.ID = id
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}

		_, err := tx.ExecContext(ctx, query, item.ID, item.UserID, item.ProductID, item.ProductTypeID, item.Quantity, item.CreatedAt)
		if err != nil {
			if isOutOfRange(err) {
				return ErrQuantityOutOfRange
			}
			return fmt.Errorf("failed to save cart item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart items: %w", err)
	}

	return nil
}

// FindByOwner retrieves an owner's cart references in the order they were first added
func (r *cartRepository) FindByOwner(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, product_type_id, quantity, created_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.ProductTypeID,
			&item.Quantity,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// CountByOwner counts an owner's cart rows without consulting the catalog
func (r *cartRepository) CountByOwner(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cart_items WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	return count, nil
}
