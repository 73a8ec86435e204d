package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/policy"
	"storefront/internal/search"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductFilter selects products and the associations to populate
type ProductFilter struct {
	ID           *int64
	CategoryURL  string // case-insensitive exact match on categories.url
	FeaturedOnly bool
	SearchText   string // substring of title or description, case-insensitive
	Scope        policy.Scope
	VariantScope policy.Scope
	WithVariants bool
	WithCategory bool
	Limit        int // 0 means no limit
	Offset       int
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	SoftDelete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Find(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `p.id, p.title, p.description, p.image_url, p.category_id,
		p.featured, p.visible, p.deleted, p.created_at, p.updated_at,
		c.id, c.name, c.url, c.visible, c.deleted`

// Create inserts a product and its variants in one transaction
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (title, description, image_url, category_id, featured, visible, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		product.Title,
		nullString(product.Description),
		product.ImageURL,
		product.CategoryID,
		product.Featured,
		product.Visible,
		product.Deleted,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	if err := upsertVariants(ctx, tx, product); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}

	return nil
}

// Update rewrites a live product and upserts the supplied variants
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE products
		SET title = $2, description = $3, image_url = $4, category_id = $5,
		    featured = $6, visible = $7
		WHERE id = $1 AND deleted = FALSE
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Title,
		nullString(product.Description),
		product.ImageURL,
		product.CategoryID,
		product.Featured,
		product.Visible,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if isForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	if err := upsertVariants(ctx, tx, product); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}

	return nil
}

func upsertVariants(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	query := `
		INSERT INTO product_variants (product_id, product_type_id, price, original_price, visible, deleted)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id, product_type_id) DO UPDATE
		SET price = EXCLUDED.price, original_price = EXCLUDED.original_price,
		    visible = EXCLUDED.visible, deleted = EXCLUDED.deleted
	`

	for i := range product.Variants {
		v := &product.Variants[i]
		v.ProductID = product.ID
		_, err := tx.ExecContext(ctx, query, v.ProductID, v.ProductTypeID, v.Price, v.OriginalPrice, v.Visible, v.Deleted)
		if err != nil {
			// product_id was just written, so only the product type can dangle
			if isForeignKeyViolation(err) {
				return ErrProductTypeNotFound
			}
			return fmt.Errorf("failed to save variant %d of product %d: %w", v.ProductTypeID, product.ID, err)
		}
	}

	return nil
}

// SoftDelete marks a live product as deleted; the row is kept
func (r *productRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE products SET deleted = TRUE WHERE id = $1 AND deleted = FALSE`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product row regardless of its flags, without variants
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// buildWhere renders the filter as a WHERE clause and its arguments
func (f ProductFilter) buildWhere() (string, []interface{}) {
	conditions := []string{f.Scope.Clause("p")}
	args := []interface{}{}
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ID != nil {
		conditions = append(conditions, "p.id = "+next(*f.ID))
	}
	if f.CategoryURL != "" {
		conditions = append(conditions, "LOWER(c.url) = LOWER("+next(f.CategoryURL)+")")
	}
	if f.FeaturedOnly {
		conditions = append(conditions, "p.featured = TRUE")
	}
	if strings.TrimSpace(f.SearchText) != "" {
		pattern := next(search.LikePattern(f.SearchText))
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE %s OR p.description ILIKE %s)", pattern, pattern))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// Find retrieves the products matching filter in store (id) order
func (r *productRepository) Find(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	whereClause, args := filter.buildWhere()

	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		` + whereClause + `
		ORDER BY p.id`

	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if !filter.WithCategory {
			product.Category = nil
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if filter.WithVariants && len(products) > 0 {
		if err := r.attachVariants(ctx, products, filter.VariantScope); err != nil {
			return nil, err
		}
	}

	return products, nil
}

// Count returns the number of products matching filter, ignoring Limit and Offset
func (r *productRepository) Count(ctx context.Context, filter ProductFilter) (int, error) {
	whereClause, args := filter.buildWhere()

	query := `SELECT COUNT(*)
		FROM products p
		JOIN categories c ON c.id = p.category_id
		` + whereClause

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return total, nil
}

func (r *productRepository) attachVariants(ctx context.Context, products []*domain.Product, scope policy.Scope) error {
	ids := make([]int64, len(products))
	byID := make(map[int64]*domain.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Variants = []domain.ProductVariant{}
	}

	query := `SELECT ` + variantColumns + `
		FROM product_variants v
		JOIN product_types t ON t.id = v.product_type_id
		WHERE v.product_id = ANY($1) AND ` + scope.Clause("v") + `
		ORDER BY v.product_id, v.product_type_id`

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to list variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		variant, err := scanVariant(rows)
		if err != nil {
			return fmt.Errorf("failed to scan variant: %w", err)
		}
		if p, ok := byID[variant.ProductID]; ok {
			p.Variants = append(p.Variants, *variant)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating variants: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{Category: &domain.Category{}}
	var description sql.NullString

	err := row.Scan(
		&product.ID,
		&product.Title,
		&description,
		&product.ImageURL,
		&product.CategoryID,
		&product.Featured,
		&product.Visible,
		&product.Deleted,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Category.ID,
		&product.Category.Name,
		&product.Category.URL,
		&product.Category.Visible,
		&product.Category.Deleted,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		product.Description = &description.String
	}

	return product, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
