package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	ErrProductTypeNotFound      = errors.New("product type not found")
	ErrProductTypeAlreadyExists = errors.New("product type with this name already exists")
)

// ProductTypeRepository defines the interface for product type data access
type ProductTypeRepository interface {
	Create(ctx context.Context, productType *domain.ProductType) error
	List(ctx context.Context) ([]*domain.ProductType, error)
}

type productTypeRepository struct {
	db *sql.DB
}

// NewProductTypeRepository creates a new instance of ProductTypeRepository
func NewProductTypeRepository(db *sql.DB) ProductTypeRepository {
	return &productTypeRepository{db: db}
}

func (r *productTypeRepository) Create(ctx context.Context, productType *domain.ProductType) error {
	query := `INSERT INTO product_types (name) VALUES ($1) RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, productType.Name).Scan(&productType.ID); err != nil {
		if isUniqueViolation(err) {
			return ErrProductTypeAlreadyExists
		}
		return fmt.Errorf("failed to create product type: %w", err)
	}

	return nil
}

func (r *productTypeRepository) List(ctx context.Context) ([]*domain.ProductType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM product_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list product types: %w", err)
	}
	defer rows.Close()

	productTypes := []*domain.ProductType{}
	for rows.Next() {
		pt := &domain.ProductType{}
		if err := rows.Scan(&pt.ID, &pt.Name); err != nil {
			return nil, fmt.Errorf("failed to scan product type: %w", err)
		}
		productTypes = append(productTypes, pt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product types: %w", err)
	}

	return productTypes, nil
}
