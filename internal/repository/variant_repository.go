package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	ErrVariantNotFound = errors.New("product variant not found")
)

// VariantRepository defines the interface for product variant data access
type VariantRepository interface {
	FindVariant(ctx context.Context, productID, productTypeID int64) (*domain.ProductVariant, error)
}

type variantRepository struct {
	db *sql.DB
}

// NewVariantRepository creates a new instance of VariantRepository
func NewVariantRepository(db *sql.DB) VariantRepository {
	return &variantRepository{db: db}
}

const variantColumns = `v.product_id, v.product_type_id, v.price, v.original_price,
		v.visible, v.deleted, t.id, t.name`

// FindVariant retrieves a variant with its product type, regardless of its flags
func (r *variantRepository) FindVariant(ctx context.Context, productID, productTypeID int64) (*domain.ProductVariant, error) {
	query := `SELECT ` + variantColumns + `
		FROM product_variants v
		JOIN product_types t ON t.id = v.product_type_id
		WHERE v.product_id = $1 AND v.product_type_id = $2`

	variant, err := scanVariant(r.db.QueryRowContext(ctx, query, productID, productTypeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to find variant: %w", err)
	}

	return variant, nil
}

func scanVariant(row rowScanner) (*domain.ProductVariant, error) {
	variant := &domain.ProductVariant{ProductType: &domain.ProductType{}}

	err := row.Scan(
		&variant.ProductID,
		&variant.ProductTypeID,
		&variant.Price,
		&variant.OriginalPrice,
		&variant.Visible,
		&variant.Deleted,
		&variant.ProductType.ID,
		&variant.ProductType.Name,
	)
	if err != nil {
		return nil, err
	}

	return variant, nil
}
