package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/policy"
	"storefront/internal/repository"
	"storefront/internal/search"
)

const (
	MsgInvalidPage = "Page must be greater than zero."
)

// SearchService defines the interface for catalog text search
type SearchService interface {
	SearchProducts(ctx context.Context, searchText string, page int) (domain.ServiceResult[*domain.ProductSearchResult], error)
	SearchSuggestions(ctx context.Context, searchText string) (domain.ServiceResult[[]string], error)
}

type searchService struct {
	productRepo repository.ProductRepository
	pageSize    int
}

// NewSearchService creates a new instance of SearchService
func NewSearchService(productRepo repository.ProductRepository) SearchService {
	return &searchService{
		productRepo: productRepo,
		pageSize:    search.PageSize,
	}
}

// matchFilter selects shopper-visible products whose title or description contains text
func matchFilter(searchText string) repository.ProductFilter {
	return repository.ProductFilter{
		SearchText:   searchText,
		Scope:        policy.Shopper,
		VariantScope: policy.Shopper,
	}
}

// SearchProducts returns one 1-indexed page of matches in store order
func (s *searchService) SearchProducts(ctx context.Context, searchText string, page int) (domain.ServiceResult[*domain.ProductSearchResult], error) {
	if page < 1 {
		return domain.Invalid[*domain.ProductSearchResult](MsgInvalidPage), nil
	}

	filter := matchFilter(searchText)

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return domain.ServiceResult[*domain.ProductSearchResult]{}, fmt.Errorf("failed to count search results: %w", err)
	}

	result := &domain.ProductSearchResult{
		Products:    []*domain.Product{},
		CurrentPage: page,
		Pages:       search.PageCount(total, s.pageSize),
	}

	if page > result.Pages {
		return domain.OK(result), nil
	}

	filter.WithVariants = true
	filter.Limit = s.pageSize
	filter.Offset = search.Offset(page, s.pageSize)

	products, err := s.productRepo.Find(ctx, filter)
	if err != nil {
		return domain.ServiceResult[*domain.ProductSearchResult]{}, fmt.Errorf("failed to search products: %w", err)
	}
	result.Products = products

	return domain.OK(result), nil
}

// SearchSuggestions returns matching titles and description words
func (s *searchService) SearchSuggestions(ctx context.Context, searchText string) (domain.ServiceResult[[]string], error) {
	if strings.TrimSpace(searchText) == "" {
		return domain.OK([]string{}), nil
	}

	products, err := s.productRepo.Find(ctx, matchFilter(searchText))
	if err != nil {
		return domain.ServiceResult[[]string]{}, fmt.Errorf("failed to find suggestion candidates: %w", err)
	}

	return domain.OK(search.Suggestions(products, searchText)), nil
}
