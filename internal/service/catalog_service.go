package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/policy"
	"storefront/internal/repository"
)

const (
	MsgProductNotFound    = "Sorry, but a product does not exist."
	MsgUnknownCategory    = "Product category does not exist."
	MsgUnknownProductType = "Variant product type does not exist."
)

// CatalogService defines the interface for product browsing and administration
type CatalogService interface {
	GetByID(ctx context.Context, productID int64, principal domain.Principal) (domain.ServiceResult[*domain.Product], error)
	ListVisible(ctx context.Context) (domain.ServiceResult[[]*domain.Product], error)
	ListByCategory(ctx context.Context, categoryURL string) (domain.ServiceResult[[]*domain.Product], error)
	ListFeatured(ctx context.Context) (domain.ServiceResult[[]*domain.Product], error)
	ListAdmin(ctx context.Context) (domain.ServiceResult[[]*domain.Product], error)
	CreateProduct(ctx context.Context, product *domain.Product) (domain.ServiceResult[*domain.Product], error)
	UpdateProduct(ctx context.Context, product *domain.Product) (domain.ServiceResult[*domain.Product], error)
	DeleteProduct(ctx context.Context, productID int64) (domain.ServiceResult[bool], error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// scoped builds a filter where the same scope governs products and their variants
func scoped(scope policy.Scope) repository.ProductFilter {
	return repository.ProductFilter{
		Scope:        scope,
		VariantScope: scope,
		WithVariants: true,
	}
}

// GetByID returns a product the principal may see, with the variants it may see
func (s *catalogService) GetByID(ctx context.Context, productID int64, principal domain.Principal) (domain.ServiceResult[*domain.Product], error) {
	filter := scoped(policy.ForPrincipal(principal))
	filter.ID = &productID

	products, err := s.productRepo.Find(ctx, filter)
	if err != nil {
		return domain.ServiceResult[*domain.Product]{}, fmt.Errorf("failed to get product: %w", err)
	}

	if len(products) == 0 {
		return domain.NotFound[*domain.Product](MsgProductNotFound), nil
	}

	return domain.OK(products[0]), nil
}

// ListVisible returns every product a shopper may see
func (s *catalogService) ListVisible(ctx context.Context) (domain.ServiceResult[[]*domain.Product], error) {
	return s.list(ctx, scoped(policy.Shopper))
}

// ListByCategory returns shopper-visible products in the category with the given slug
func (s *catalogService) ListByCategory(ctx context.Context, categoryURL string) (domain.ServiceResult[[]*domain.Product], error) {
	categoryURL = strings.TrimSpace(categoryURL)
	if categoryURL == "" {
		return domain.OK([]*domain.Product{}), nil
	}

	filter := scoped(policy.Shopper)
	filter.CategoryURL = categoryURL
	return s.list(ctx, filter)
}

// ListFeatured returns shopper-visible featured products
func (s *catalogService) ListFeatured(ctx context.Context) (domain.ServiceResult[[]*domain.Product], error) {
	filter := scoped(policy.Shopper)
	filter.FeaturedOnly = true
	return s.list(ctx, filter)
}

// ListAdmin returns every non-deleted product with every non-deleted variant.
// Route-level authorization decides who may call it.
func (s *catalogService) ListAdmin(ctx context.Context) (domain.ServiceResult[[]*domain.Product], error) {
	filter := scoped(policy.Admin)
	filter.WithCategory = true
	return s.list(ctx, filter)
}

func (s *catalogService) list(ctx context.Context, filter repository.ProductFilter) (domain.ServiceResult[[]*domain.Product], error) {
	products, err := s.productRepo.Find(ctx, filter)
	if err != nil {
		return domain.ServiceResult[[]*domain.Product]{}, fmt.Errorf("failed to list products: %w", err)
	}
	return domain.OK(products), nil
}

// CreateProduct stores a new product with its variants
func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) (domain.ServiceResult[*domain.Product], error) {
	if msg := validateProduct(product); msg != "" {
		return domain.Invalid[*domain.Product](msg), nil
	}

	product.ID = 0
	product.Deleted = false

	if err := s.productRepo.Create(ctx, product); err != nil {
		if msg := danglingReference(err); msg != "" {
			return domain.Invalid[*domain.Product](msg), nil
		}
		return domain.ServiceResult[*domain.Product]{}, fmt.Errorf("failed to create product: %w", err)
	}

	return s.reload(ctx, product.ID)
}

// UpdateProduct rewrites a live product and upserts its variants
func (s *catalogService) UpdateProduct(ctx context.Context, product *domain.Product) (domain.ServiceResult[*domain.Product], error) {
	if product == nil || product.ID <= 0 {
		return domain.Invalid[*domain.Product]("Product id is required."), nil
	}
	if msg := validateProduct(product); msg != "" {
		return domain.Invalid[*domain.Product](msg), nil
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domain.NotFound[*domain.Product](MsgProductNotFound), nil
		}
		if msg := danglingReference(err); msg != "" {
			return domain.Invalid[*domain.Product](msg), nil
		}
		return domain.ServiceResult[*domain.Product]{}, fmt.Errorf("failed to update product: %w", err)
	}

	return s.reload(ctx, product.ID)
}

// DeleteProduct soft-deletes a product
func (s *catalogService) DeleteProduct(ctx context.Context, productID int64) (domain.ServiceResult[bool], error) {
	if err := s.productRepo.SoftDelete(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domain.NotFound[bool](MsgProductNotFound), nil
		}
		return domain.ServiceResult[bool]{}, fmt.Errorf("failed to delete product: %w", err)
	}

	return domain.OK(true), nil
}

// reload returns the admin view of a product after a write
func (s *catalogService) reload(ctx context.Context, productID int64) (domain.ServiceResult[*domain.Product], error) {
	filter := scoped(policy.Admin)
	filter.ID = &productID
	filter.WithCategory = true

	products, err := s.productRepo.Find(ctx, filter)
	if err != nil {
		return domain.ServiceResult[*domain.Product]{}, fmt.Errorf("failed to reload product: %w", err)
	}
	if len(products) == 0 {
		return domain.NotFound[*domain.Product](MsgProductNotFound), nil
	}

	return domain.OK(products[0]), nil
}

// danglingReference names the lookup a write pointed at that does not exist
func danglingReference(err error) string {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return MsgUnknownCategory
	case errors.Is(err, repository.ErrProductTypeNotFound):
		return MsgUnknownProductType
	}
	return ""
}

func validateProduct(p *domain.Product) string {
	if p == nil {
		return "Product is required."
	}
	if strings.TrimSpace(p.Title) == "" {
		return "Product title is required."
	}
	if p.CategoryID <= 0 {
		return "Product category is required."
	}

	seen := make(map[int64]bool, len(p.Variants))
	for _, v := range p.Variants {
		if v.ProductTypeID <= 0 {
			return "Variant product type is required."
		}
		if seen[v.ProductTypeID] {
			return "A product cannot have two variants of the same product type."
		}
		seen[v.ProductTypeID] = true
		if v.Price.IsNegative() || v.OriginalPrice.IsNegative() {
			return "Variant prices cannot be negative."
		}
	}

	return ""
}
