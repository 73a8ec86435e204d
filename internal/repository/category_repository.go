package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/policy"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this url already exists")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context, scope policy.Scope) ([]*domain.Category, error)
	FindByURL(ctx context.Context, url string) (*domain.Category, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a new category and fills in its generated ID
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, url, visible, deleted)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		category.Name,
		category.URL,
		category.Visible,
		category.Deleted,
	).Scan(&category.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// List retrieves the categories allowed by scope, ordered by name
func (r *categoryRepository) List(ctx context.Context, scope policy.Scope) ([]*domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.url, c.visible, c.deleted
		FROM categories c
		WHERE ` + scope.Clause("c") + `
		ORDER BY c.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// FindByURL retrieves a category by its slug, ignoring case
func (r *categoryRepository) FindByURL(ctx context.Context, url string) (*domain.Category, error) {
	query := `
		SELECT id, name, url, visible, deleted
		FROM categories
		WHERE LOWER(url) = LOWER($1)
	`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, url))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by url: %w", err)
	}

	return category, nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	category := &domain.Category{}
	if err := row.Scan(&category.ID, &category.Name, &category.URL, &category.Visible, &category.Deleted); err != nil {
		return nil, err
	}
	return category, nil
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// isUniqueViolation reports a postgres 23505 error
func isUniqueViolation(err error) bool {
	return hasSQLState(err, "23505")
}

// isForeignKeyViolation reports a postgres 23503 error
func isForeignKeyViolation(err error) bool {
	return hasSQLState(err, "23503")
}

// isOutOfRange reports a postgres 22003 numeric overflow
func isOutOfRange(err error) bool {
	return hasSQLState(err, "22003")
}
