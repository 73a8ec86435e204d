package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "handler-secret"

// mockCatalogService records what the handlers hand it
type mockCatalogService struct {
	products      map[int64]*domain.Product
	lastPrincipal domain.Principal
	created       *domain.Product
	updated       *domain.Product
	deleted       int64
	err           error
}

func newMockCatalogService() *mockCatalogService {
	return &mockCatalogService{
		products: map[int64]*domain.Product{
			1: {ID: 1, Title: "Red Shirt", Visible: true},
			2: {ID: 2, Title: "Hidden Shirt", Visible: false},
		},
	}
}

func (m *mockCatalogService) GetByID(ctx context.Context, id int64, principal domain.Principal) (domain.ServiceResult[*domain.Product], error) {
	m.lastPrincipal = principal
	if m.err != nil {
		return domain.ServiceResult[*domain.Product]{}, m.err
	}
	p, ok := m.products[id]
	if !ok || (!p.Visible && !principal.IsAdmin()) {
		return domain.NotFound[*domain.Product]("Sorry, but a product does not exist."), nil
	}
	return domain.OK(p), nil
}

func (m *mockCatalogService) ListVisible(ctx context.Context) (domain.ServiceResult[[]*domain.Product], error) {
	return domain.OK([]*domain.Product{m.products[1]}), m.err
}

func (m *mockCatalogService) ListByCategory(ctx context.Context, categoryURL string) (domain.ServiceResult[[]*domain.Product], error) {
	if categoryURL != "shirts" {
		return domain.OK([]*domain.Product{}), nil
	}
	return domain.OK([]*domain.Product{m.products[1]}), nil
}

func (m *mockCatalogService) ListFeatured(ctx context.Context) (domain.ServiceResult[[]*domain.Product], error) {
	return domain.OK([]*domain.Product{}), nil
}

func (m *mockCatalogService) ListAdmin(ctx context.Context) (domain.ServiceResult[[]*domain.Product], error) {
	return domain.OK([]*domain.Product{m.products[1], m.products[2]}), nil
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, product *domain.Product) (domain.ServiceResult[*domain.Product], error) {
	product.ID = 3
	m.created = product
	return domain.OK(product), nil
}

func (m *mockCatalogService) UpdateProduct(ctx context.Context, product *domain.Product) (domain.ServiceResult[*domain.Product], error) {
	m.updated = product
	if _, ok := m.products[product.ID]; !ok {
		return domain.NotFound[*domain.Product]("Sorry, but a product does not exist."), nil
	}
	return domain.OK(product), nil
}

func (m *mockCatalogService) DeleteProduct(ctx context.Context, id int64) (domain.ServiceResult[bool], error) {
	m.deleted = id
	return domain.OK(true), nil
}

type mockSearchService struct {
	lastText string
	lastPage int
}

func (m *mockSearchService) SearchProducts(ctx context.Context, searchText string, page int) (domain.ServiceResult[*domain.ProductSearchResult], error) {
	m.lastText, m.lastPage = searchText, page
	if page < 1 {
		return domain.Invalid[*domain.ProductSearchResult]("Page must be greater than zero."), nil
	}
	return domain.OK(&domain.ProductSearchResult{Products: []*domain.Product{}, CurrentPage: page, Pages: 3}), nil
}

func (m *mockSearchService) SearchSuggestions(ctx context.Context, searchText string) (domain.ServiceResult[[]string], error) {
	m.lastText = searchText
	return domain.OK([]string{"Red Shirt", "shirt"}), nil
}

type mockCartService struct {
	lastPrincipal domain.Principal
	lastItems     []domain.CartItem
}

func (m *mockCartService) ResolveCartItems(ctx context.Context, principal domain.Principal, items []domain.CartItem) (domain.ServiceResult[[]domain.CartLineItem], error) {
	m.lastPrincipal, m.lastItems = principal, items
	lines := make([]domain.CartLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.CartLineItem{ProductID: item.ProductID, ProductTypeID: item.ProductTypeID, Quantity: item.Quantity})
	}
	return domain.OK(lines), nil
}

func (m *mockCartService) StoreCartItems(ctx context.Context, principal domain.Principal, items []domain.CartItem) (domain.ServiceResult[[]domain.CartLineItem], error) {
	m.lastPrincipal, m.lastItems = principal, items
	if !principal.Authenticated() {
		return domain.Unauthenticated[[]domain.CartLineItem]("You must be signed in to use a stored cart."), nil
	}
	return domain.OK([]domain.CartLineItem{}), nil
}

func (m *mockCartService) CountCartItems(ctx context.Context, principal domain.Principal) (domain.ServiceResult[int], error) {
	m.lastPrincipal = principal
	if !principal.Authenticated() {
		return domain.Unauthenticated[int]("You must be signed in to use a stored cart."), nil
	}
	return domain.OK(2), nil
}

type mockLookupService struct {
	createdCategory *domain.Category
}

func (m *mockLookupService) ListCategories(ctx context.Context, principal domain.Principal) (domain.ServiceResult[[]*domain.Category], error) {
	categories := []*domain.Category{{ID: 1, Name: "Books", URL: "books", Visible: true}}
	if principal.IsAdmin() {
		categories = append(categories, &domain.Category{ID: 2, Name: "Drafts", URL: "drafts"})
	}
	return domain.OK(categories), nil
}

func (m *mockLookupService) GetCategory(ctx context.Context, url string, principal domain.Principal) (domain.ServiceResult[*domain.Category], error) {
	if url != "books" {
		return domain.NotFound[*domain.Category]("Sorry, but this category does not exist."), nil
	}
	return domain.OK(&domain.Category{ID: 1, Name: "Books", URL: "books", Visible: true}), nil
}

func (m *mockLookupService) CreateCategory(ctx context.Context, category *domain.Category) (domain.ServiceResult[*domain.Category], error) {
	category.ID = 9
	m.createdCategory = category
	return domain.OK(category), nil
}

func (m *mockLookupService) ListProductTypes(ctx context.Context) (domain.ServiceResult[[]*domain.ProductType], error) {
	return domain.OK([]*domain.ProductType{{ID: 1, Name: "Default"}}), nil
}

func (m *mockLookupService) CreateProductType(ctx context.Context, productType *domain.ProductType) (domain.ServiceResult[*domain.ProductType], error) {
	productType.ID = 11
	return domain.OK(productType), nil
}

type testAPI struct {
	router  chi.Router
	catalog *mockCatalogService
	search  *mockSearchService
	cart    *mockCartService
	lookups *mockLookupService
}

func newTestAPI() *testAPI {
	logger := zap.NewNop()
	api := &testAPI{
		router:  chi.NewRouter(),
		catalog: newMockCatalogService(),
		search:  &mockSearchService{},
		cart:    &mockCartService{},
		lookups: &mockLookupService{},
	}

	guards := Guards{
		Optional: middleware.OptionalAuth(testSecret, logger),
		Required: middleware.AuthMiddleware(testSecret, logger),
		Admin:    middleware.RequireAdmin(logger),
	}

	NewProductHandler(api.catalog, api.search, logger).RegisterRoutes(api.router, guards)
	NewCartHandler(api.cart, logger).RegisterRoutes(api.router, guards)
	NewLookupHandler(api.lookups, logger).RegisterRoutes(api.router, guards)

	return api
}

func bearer(userID int64, role string) string {
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	return "Bearer " + token
}

// do sends a request; body is JSON-encoded unless it is already a string
func (api *testAPI) do(method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

// envelope is the wire shape of a ServiceResult
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a result envelope: %v (%s)", err, w.Body.String())
	}
	return env
}
