package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/search"

	"github.com/shopspring/decimal"
)

// mockCatalogStore is an in-memory ProductRepository and VariantRepository
type mockCatalogStore struct {
	mu         sync.Mutex
	products   []*domain.Product
	variants   []domain.ProductVariant
	types      map[int64]*domain.ProductType
	categories map[int64]*domain.Category
	nextID     int64

	// lookupDelay slows FindByID per product id to shuffle completion order
	lookupDelay map[int64]time.Duration
	err         error
}

func newMockCatalogStore() *mockCatalogStore {
	return &mockCatalogStore{
		types: map[int64]*domain.ProductType{
			1: {ID: 1, Name: "Small"},
			2: {ID: 2, Name: "Large"},
			3: {ID: 3, Name: "Default"},
		},
		categories: map[int64]*domain.Category{
			1: {ID: 1, Name: "Shirts", URL: "shirts", Visible: true},
			2: {ID: 2, Name: "Books", URL: "books", Visible: true},
		},
		lookupDelay: map[int64]time.Duration{},
	}
}

func (m *mockCatalogStore) addProduct(p domain.Product, variants ...domain.ProductVariant) *domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	if p.CategoryID == 0 {
		p.CategoryID = 1
	}
	stored := p
	m.products = append(m.products, &stored)
	for _, v := range variants {
		v.ProductID = stored.ID
		m.variants = append(m.variants, v)
	}
	return &stored
}

func (m *mockCatalogStore) product(id int64) *domain.Product {
	for _, p := range m.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *mockCatalogStore) matching(f repository.ProductFilter) []*domain.Product {
	var out []*domain.Product
	for _, p := range m.products {
		if !f.Scope.Allows(p) {
			continue
		}
		if f.ID != nil && p.ID != *f.ID {
			continue
		}
		if f.CategoryURL != "" {
			c := m.categories[p.CategoryID]
			if c == nil || !strings.EqualFold(c.URL, f.CategoryURL) {
				continue
			}
		}
		if f.FeaturedOnly && !p.Featured {
			continue
		}
		if strings.TrimSpace(f.SearchText) != "" && !search.Matches(p, f.SearchText, f.Scope) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (m *mockCatalogStore) variantsOf(productID int64) []domain.ProductVariant {
	var out []domain.ProductVariant
	for _, v := range m.variants {
		if v.ProductID == productID {
			v.ProductType = m.types[v.ProductTypeID]
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductTypeID < out[j].ProductTypeID })
	return out
}

func (m *mockCatalogStore) Find(ctx context.Context, f repository.ProductFilter) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	matches := m.matching(f)
	if f.Limit > 0 {
		start, end := search.Window(len(matches), f.Offset/f.Limit+1, f.Limit)
		matches = matches[start:end]
	}

	out := []*domain.Product{}
	for _, p := range matches {
		c := *p
		if f.WithVariants {
			c.Variants = f.VariantScope.FilterVariants(m.variantsOf(p.ID))
		}
		if f.WithCategory {
			c.Category = m.categories[p.CategoryID]
		}
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockCatalogStore) Count(ctx context.Context, f repository.ProductFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return len(m.matching(f)), nil
}

func (m *mockCatalogStore) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	delay := m.lookupDelay[id]
	err := m.err
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.product(id)
	if p == nil {
		return nil, repository.ErrProductNotFound
	}
	c := *p
	return &c, nil
}

func (m *mockCatalogStore) FindVariant(ctx context.Context, productID, productTypeID int64) (*domain.ProductVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.variantsOf(productID) {
		if v.ProductTypeID == productTypeID {
			return &v, nil
		}
	}
	return nil, repository.ErrVariantNotFound
}

// dangling mirrors the store's foreign keys on category and product type
func (m *mockCatalogStore) dangling(p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.categories[p.CategoryID] == nil {
		return repository.ErrCategoryNotFound
	}
	for _, v := range p.Variants {
		if m.types[v.ProductTypeID] == nil {
			return repository.ErrProductTypeNotFound
		}
	}
	return nil
}

func (m *mockCatalogStore) Create(ctx context.Context, p *domain.Product) error {
	if m.err != nil {
		return m.err
	}
	if err := m.dangling(p); err != nil {
		return err
	}
	variants := p.Variants
	p.Variants = nil
	stored := m.addProduct(*p, variants...)
	p.ID = stored.ID
	return nil
}

func (m *mockCatalogStore) Update(ctx context.Context, p *domain.Product) error {
	if err := m.dangling(p); err != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		if existing := m.product(p.ID); existing == nil || existing.Deleted {
			return repository.ErrProductNotFound
		}
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing := m.product(p.ID)
	if existing == nil || existing.Deleted {
		return repository.ErrProductNotFound
	}
	existing.Title = p.Title
	existing.Description = p.Description
	existing.ImageURL = p.ImageURL
	existing.CategoryID = p.CategoryID
	existing.Featured = p.Featured
	existing.Visible = p.Visible

	for _, v := range p.Variants {
		v.ProductID = p.ID
		replaced := false
		for i := range m.variants {
			if m.variants[i].ProductID == p.ID && m.variants[i].ProductTypeID == v.ProductTypeID {
				m.variants[i] = v
				replaced = true
			}
		}
		if !replaced {
			m.variants = append(m.variants, v)
		}
	}
	return nil
}

func (m *mockCatalogStore) SoftDelete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.product(id)
	if p == nil || p.Deleted {
		return repository.ErrProductNotFound
	}
	p.Deleted = true
	return nil
}

// mockCartRepository is an in-memory CartRepository
type mockCartRepository struct {
	mu    sync.Mutex
	items []domain.CartItem
	err   error
}

func (m *mockCartRepository) SaveAll(ctx context.Context, items []domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, item := range items {
		merged := false
		for i := range m.items {
			e := &m.items[i]
			if e.UserID == item.UserID && e.ProductID == item.ProductID && e.ProductTypeID == item.ProductTypeID {
				if e.Quantity+item.Quantity > math.MaxInt32 {
					return repository.ErrQuantityOutOfRange
				}
				e.Quantity += item.Quantity
				merged = true
			}
		}
		if !merged {
			m.items = append(m.items, item)
		}
	}
	return nil
}

func (m *mockCartRepository) FindByOwner(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.CartItem{}
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockCartRepository) CountByOwner(ctx context.Context, userID int64) (int, error) {
	items, _ := m.FindByOwner(ctx, userID)
	return len(items), nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

var (
	shopper = domain.Principal{ID: 7, Role: domain.RoleShopper}
	admin   = domain.Principal{ID: 1, Role: domain.RoleAdmin}
)
