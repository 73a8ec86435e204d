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
	MsgCategoryNotFound = "Sorry, but this category does not exist."
)

// LookupService serves the category and product type dimensions
type LookupService interface {
	ListCategories(ctx context.Context, principal domain.Principal) (domain.ServiceResult[[]*domain.Category], error)
	GetCategory(ctx context.Context, url string, principal domain.Principal) (domain.ServiceResult[*domain.Category], error)
	CreateCategory(ctx context.Context, category *domain.Category) (domain.ServiceResult[*domain.Category], error)
	ListProductTypes(ctx context.Context) (domain.ServiceResult[[]*domain.ProductType], error)
	CreateProductType(ctx context.Context, productType *domain.ProductType) (domain.ServiceResult[*domain.ProductType], error)
}

type lookupService struct {
	categoryRepo    repository.CategoryRepository
	productTypeRepo repository.ProductTypeRepository
}

// NewLookupService creates a new instance of LookupService
func NewLookupService(categoryRepo repository.CategoryRepository, productTypeRepo repository.ProductTypeRepository) LookupService {
	return &lookupService{
		categoryRepo:    categoryRepo,
		productTypeRepo: productTypeRepo,
	}
}

func (s *lookupService) ListCategories(ctx context.Context, principal domain.Principal) (domain.ServiceResult[[]*domain.Category], error) {
	categories, err := s.categoryRepo.List(ctx, policy.ForPrincipal(principal))
	if err != nil {
		return domain.ServiceResult[[]*domain.Category]{}, fmt.Errorf("failed to list categories: %w", err)
	}
	return domain.OK(categories), nil
}

// GetCategory finds a category by slug, subject to the principal's scope
func (s *lookupService) GetCategory(ctx context.Context, url string, principal domain.Principal) (domain.ServiceResult[*domain.Category], error) {
	category, err := s.categoryRepo.FindByURL(ctx, strings.TrimSpace(url))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domain.NotFound[*domain.Category](MsgCategoryNotFound), nil
		}
		return domain.ServiceResult[*domain.Category]{}, fmt.Errorf("failed to get category: %w", err)
	}
	if !policy.ForPrincipal(principal).Allows(category) {
		return domain.NotFound[*domain.Category](MsgCategoryNotFound), nil
	}
	return domain.OK(category), nil
}

func (s *lookupService) CreateCategory(ctx context.Context, category *domain.Category) (domain.ServiceResult[*domain.Category], error) {
	if category == nil || strings.TrimSpace(category.Name) == "" || strings.TrimSpace(category.URL) == "" {
		return domain.Invalid[*domain.Category]("Category name and url are required."), nil
	}

	category.ID = 0
	category.Deleted = false

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return domain.Invalid[*domain.Category]("A category with this url already exists."), nil
		}
		return domain.ServiceResult[*domain.Category]{}, fmt.Errorf("failed to create category: %w", err)
	}

	return domain.OK(category), nil
}

func (s *lookupService) ListProductTypes(ctx context.Context) (domain.ServiceResult[[]*domain.ProductType], error) {
	productTypes, err := s.productTypeRepo.List(ctx)
	if err != nil {
		return domain.ServiceResult[[]*domain.ProductType]{}, fmt.Errorf("failed to list product types: %w", err)
	}
	return domain.OK(productTypes), nil
}

func (s *lookupService) CreateProductType(ctx context.Context, productType *domain.ProductType) (domain.ServiceResult[*domain.ProductType], error) {
	if productType == nil || strings.TrimSpace(productType.Name) == "" {
		return domain.Invalid[*domain.ProductType]("Product type name is required."), nil
	}

	productType.ID = 0

	if err := s.productTypeRepo.Create(ctx, productType); err != nil {
		if errors.Is(err, repository.ErrProductTypeAlreadyExists) {
			return domain.Invalid[*domain.ProductType]("A product type with this name already exists."), nil
		}
		return domain.ServiceResult[*domain.ProductType]{}, fmt.Errorf("failed to create product type: %w", err)
	}

	return domain.OK(productType), nil
}
