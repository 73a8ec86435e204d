package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"storefront/internal/domain"
	"storefront/internal/policy"
	"storefront/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	MsgUnauthenticated = "You must be signed in to use a stored cart."
	MsgInvalidCartItem = "Cart items need a product, a product type and a quantity greater than zero."
	MsgCartQuantity    = "Cart item quantity is too large."

	// MaxCartQuantity is the largest quantity a stored cart row can hold
	MaxCartQuantity = math.MaxInt32

	defaultResolveConcurrency = 8
)

// CartService defines the interface for cart resolution and storage
type CartService interface {
	ResolveCartItems(ctx context.Context, principal domain.Principal, items []domain.CartItem) (domain.ServiceResult[[]domain.CartLineItem], error)
	StoreCartItems(ctx context.Context, principal domain.Principal, items []domain.CartItem) (domain.ServiceResult[[]domain.CartLineItem], error)
	CountCartItems(ctx context.Context, principal domain.Principal) (domain.ServiceResult[int], error)
}

type cartService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	cartRepo    repository.CartRepository
	logger      *zap.Logger
	concurrency int
}

// NewCartService creates a new instance of CartService. concurrency bounds the
// catalog lookups in flight for one cart; values below 1 use the default.
func NewCartService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	cartRepo repository.CartRepository,
	logger *zap.Logger,
	concurrency int,
) CartService {
	if concurrency < 1 {
		concurrency = defaultResolveConcurrency
	}
	return &cartService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		cartRepo:    cartRepo,
		logger:      logger,
		concurrency: concurrency,
	}
}

// ResolveCartItems prices each reference against the live catalog. References
// that do not resolve to an eligible product and variant are dropped, malformed
// ones included; the remaining line items keep the input order.
func (s *cartService) ResolveCartItems(ctx context.Context, principal domain.Principal, items []domain.CartItem) (domain.ServiceResult[[]domain.CartLineItem], error) {
	lines, err := s.resolve(ctx, policy.ForPrincipal(principal), items)
	if err != nil {
		return domain.ServiceResult[[]domain.CartLineItem]{}, err
	}

	return domain.OK(lines), nil
}

// StoreCartItems persists the references for the principal and returns the
// principal's whole resolved cart, not only the new items.
func (s *cartService) StoreCartItems(ctx context.Context, principal domain.Principal, items []domain.CartItem) (domain.ServiceResult[[]domain.CartLineItem], error) {
	if !principal.Authenticated() {
		return domain.Unauthenticated[[]domain.CartLineItem](MsgUnauthenticated), nil
	}
	if !validCartItems(items) {
		return domain.Invalid[[]domain.CartLineItem](MsgInvalidCartItem), nil
	}
	for _, item := range items {
		if item.Quantity > MaxCartQuantity {
			return domain.Invalid[[]domain.CartLineItem](MsgCartQuantity), nil
		}
	}

	owned := make([]domain.CartItem, len(items))
	for i, item := range items {
		item.UserID = principal.ID
		owned[i] = item
	}

	if err := s.cartRepo.SaveAll(ctx, owned); err != nil {
		if errors.Is(err, repository.ErrQuantityOutOfRange) {
			return domain.Invalid[[]domain.CartLineItem](MsgCartQuantity), nil
		}
		return domain.ServiceResult[[]domain.CartLineItem]{}, fmt.Errorf("failed to store cart items: %w", err)
	}

	stored, err := s.cartRepo.FindByOwner(ctx, principal.ID)
	if err != nil {
		return domain.ServiceResult[[]domain.CartLineItem]{}, fmt.Errorf("failed to load cart: %w", err)
	}

	lines, err := s.resolve(ctx, policy.ForPrincipal(principal), stored)
	if err != nil {
		return domain.ServiceResult[[]domain.CartLineItem]{}, err
	}

	s.logger.Info("Cart stored",
		zap.Int64("user_id", principal.ID),
		zap.Int("added", len(items)),
		zap.Int("stored", len(stored)),
		zap.Int("resolved", len(lines)),
	)

	return domain.OK(lines), nil
}

// CountCartItems counts the principal's stored references. Catalog state is not consulted.
func (s *cartService) CountCartItems(ctx context.Context, principal domain.Principal) (domain.ServiceResult[int], error) {
	if !principal.Authenticated() {
		return domain.Unauthenticated[int](MsgUnauthenticated), nil
	}

	count, err := s.cartRepo.CountByOwner(ctx, principal.ID)
	if err != nil {
		return domain.ServiceResult[int]{}, fmt.Errorf("failed to count cart items: %w", err)
	}

	return domain.OK(count), nil
}

func (s *cartService) resolve(ctx context.Context, scope policy.Scope, items []domain.CartItem) ([]domain.CartLineItem, error) {
	slots := make([]*domain.CartLineItem, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range items {
		g.Go(func() error {
			line, err := s.resolveOne(gctx, scope, items[i])
			if err != nil {
				return err
			}
			slots[i] = line
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve cart items: %w", err)
	}

	lines := make([]domain.CartLineItem, 0, len(items))
	for _, line := range slots {
		if line != nil {
			lines = append(lines, *line)
		}
	}

	return lines, nil
}

// resolveOne returns nil when the reference no longer resolves
func (s *cartService) resolveOne(ctx context.Context, scope policy.Scope, item domain.CartItem) (*domain.CartLineItem, error) {
	if !validCartItems([]domain.CartItem{item}) {
		s.dropped(item, "malformed reference")
		return nil, nil
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.dropped(item, "product not found")
			return nil, nil
		}
		return nil, err
	}
	if !scope.Allows(product) {
		s.dropped(item, "product not available")
		return nil, nil
	}

	variant, err := s.variantRepo.FindVariant(ctx, item.ProductID, item.ProductTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			s.dropped(item, "variant not found")
			return nil, nil
		}
		return nil, err
	}
	if !scope.Allows(variant) {
		s.dropped(item, "variant not available")
		return nil, nil
	}

	line := &domain.CartLineItem{
		ProductID:     product.ID,
		Title:         product.Title,
		ImageURL:      product.ImageURL,
		Price:         variant.Price,
		ProductTypeID: variant.ProductTypeID,
		Quantity:      item.Quantity,
	}
	if variant.ProductType != nil {
		line.ProductType = variant.ProductType.Name
	}

	return line, nil
}

func (s *cartService) dropped(item domain.CartItem, reason string) {
	s.logger.Debug("Cart item dropped",
		zap.Int64("product_id", item.ProductID),
		zap.Int64("product_type_id", item.ProductTypeID),
		zap.String("reason", reason),
	)
}

func validCartItems(items []domain.CartItem) bool {
	for _, item := range items {
		if item.ProductID <= 0 || item.ProductTypeID <= 0 || item.Quantity <= 0 {
			return false
		}
	}
	return true
}
