package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// VariantRequest is one product variant in a create or update payload
type VariantRequest struct {
	ProductTypeID int64           `json:"productTypeId" validate:"required,gt=0"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	OriginalPrice decimal.Decimal `json:"originalPrice" validate:"gte=0"`
	Visible       bool            `json:"visible"`
	Deleted       bool            `json:"deleted"`
}

// ProductRequest represents the product create and update payload
type ProductRequest struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title" validate:"required,max=200"`
	Description *string          `json:"description"`
	ImageURL    string           `json:"imageUrl" validate:"max=500"`
	CategoryID  int64            `json:"categoryId" validate:"required,gt=0"`
	Featured    bool             `json:"featured"`
	Visible     bool             `json:"visible"`
	Variants    []VariantRequest `json:"variants" validate:"dive"`
}

func (req ProductRequest) toDomain() *domain.Product {
	product := &domain.Product{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Featured:    req.Featured,
		Visible:     req.Visible,
		Variants:    make([]domain.ProductVariant, 0, len(req.Variants)),
	}
	for _, v := range req.Variants {
		product.Variants = append(product.Variants, domain.ProductVariant{
			ProductTypeID: v.ProductTypeID,
			Price:         v.Price,
			OriginalPrice: v.OriginalPrice,
			Visible:       v.Visible,
			Deleted:       v.Deleted,
		})
	}
	return product
}

// ProductHandler handles HTTP requests for catalog browsing, search and administration
type ProductHandler struct {
	catalog service.CatalogService
	search  service.SearchService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, search service.SearchService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		search:  search,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes under both spellings the client uses
func (h *ProductHandler) RegisterRoutes(r chi.Router, guards Guards) {
	products := chi.NewRouter()

	// Public routes
	products.Get("/featured", h.ListFeatured)
	products.Get("/category/{categoryUrl}", h.ListByCategory)
	products.Get("/search", h.Search)
	products.Get("/search/{searchText}", h.Search)
	products.Get("/search/{searchText}/{page}", h.Search)
	products.Get("/searchsuggestions", h.SearchSuggestions)
	products.Get("/searchsuggestions/{searchText}", h.SearchSuggestions)

	// Principal-aware routes
	products.Group(func(r chi.Router) {
		r.Use(guards.Optional)
		r.Get("/", h.ListVisible)
		r.Get("/{id:[0-9]+}", h.GetByID)
	})

	// Admin routes
	products.Group(func(r chi.Router) {
		r.Use(guards.Required, guards.Admin)
		r.Get("/admin", h.ListAdmin)
		r.Post("/", h.Create)
		r.Put("/", h.Update)
		r.Delete("/{id:[0-9]+}", h.Delete)
	})

	r.Mount("/api/product", products)
	r.Mount("/api/Product", products)
}

// ListVisible handles listing every shopper-visible product
func (h *ProductHandler) ListVisible(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.ListVisible(r.Context())
	writeResult(w, r, h.logger, "List products", result, err)
}

// GetByID handles fetching one product as the caller may see it
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	result, err := h.catalog.GetByID(r.Context(), id, middleware.GetPrincipal(r.Context()))
	writeResult(w, r, h.logger, "Get product", result, err)
}

// ListByCategory handles listing the visible products of a category
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.ListByCategory(r.Context(), chi.URLParam(r, "categoryUrl"))
	writeResult(w, r, h.logger, "List products by category", result, err)
}

// ListFeatured handles listing visible featured products
func (h *ProductHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.ListFeatured(r.Context())
	writeResult(w, r, h.logger, "List featured products", result, err)
}

// Search handles paged text search. Text and page come from the path or the query string.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	searchText := chi.URLParam(r, "searchText")
	if searchText == "" {
		searchText = r.URL.Query().Get("searchText")
	}

	rawPage := chi.URLParam(r, "page")
	if rawPage == "" {
		rawPage = r.URL.Query().Get("page")
	}

	page := 1
	if rawPage != "" {
		parsed, err := strconv.Atoi(rawPage)
		if err != nil {
			middleware.RespondWithResult(w, domain.Invalid[*domain.ProductSearchResult](service.MsgInvalidPage))
			return
		}
		page = parsed
	}

	result, err := h.search.SearchProducts(r.Context(), searchText, page)
	writeResult(w, r, h.logger, "Search products", result, err)
}

// SearchSuggestions handles suggestion lookups for a partial search text
func (h *ProductHandler) SearchSuggestions(w http.ResponseWriter, r *http.Request) {
	searchText := chi.URLParam(r, "searchText")
	if searchText == "" {
		searchText = r.URL.Query().Get("searchText")
	}

	result, err := h.search.SearchSuggestions(r.Context(), searchText)
	writeResult(w, r, h.logger, "Search suggestions", result, err)
}

// ListAdmin handles the admin listing, hidden products included
func (h *ProductHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.ListAdmin(r.Context())
	writeResult(w, r, h.logger, "List admin products", result, err)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		decodeFailed(w, r, h.logger, err)
		return
	}

	result, err := h.catalog.CreateProduct(r.Context(), req.toDomain())
	if err == nil && result.Success {
		h.logger.Info("Product created",
			zap.Int64("product_id", result.Data.ID),
			zap.Int64("user_id", middleware.GetPrincipal(r.Context()).ID),
		)
	}
	writeResult(w, r, h.logger, "Create product", result, err)
}

// Update handles product updates, variant flags included
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		decodeFailed(w, r, h.logger, err)
		return
	}

	result, err := h.catalog.UpdateProduct(r.Context(), req.toDomain())
	if err == nil && result.Success {
		h.logger.Info("Product updated",
			zap.Int64("product_id", req.ID),
			zap.Int64("user_id", middleware.GetPrincipal(r.Context()).ID),
		)
	}
	writeResult(w, r, h.logger, "Update product", result, err)
}

// Delete handles soft deletion of a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	result, err := h.catalog.DeleteProduct(r.Context(), id)
	if err == nil && result.Success {
		h.logger.Info("Product deleted",
			zap.Int64("product_id", id),
			zap.Int64("user_id", middleware.GetPrincipal(r.Context()).ID),
		)
	}
	writeResult(w, r, h.logger, "Delete product", result, err)
}
