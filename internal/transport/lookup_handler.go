package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryRequest represents the category create payload
type CategoryRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	URL     string `json:"url" validate:"required,max=100"`
	Visible bool   `json:"visible"`
}

// ProductTypeRequest represents the product type create payload
type ProductTypeRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// LookupHandler handles HTTP requests for categories and product types
type LookupHandler struct {
	lookups service.LookupService
	logger  *zap.Logger
}

// NewLookupHandler creates a new LookupHandler
func NewLookupHandler(lookups service.LookupService, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		lookups: lookups,
		logger:  logger,
	}
}

// RegisterRoutes registers the category and product type routes
func (h *LookupHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/api/category", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(guards.Optional)
			r.Get("/", h.ListCategories)
			r.Get("/{url}", h.GetCategory)
		})
		r.With(guards.Required, guards.Admin).Post("/", h.CreateCategory)
	})

	r.Route("/api/producttype", func(r chi.Router) {
		r.Get("/", h.ListProductTypes)
		r.With(guards.Required, guards.Admin).Post("/", h.CreateProductType)
	})
}

// ListCategories handles listing the categories the caller may see
func (h *LookupHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.lookups.ListCategories(r.Context(), middleware.GetPrincipal(r.Context()))
	writeResult(w, r, h.logger, "List categories", result, err)
}

// GetCategory handles fetching a category by its url slug
func (h *LookupHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	result, err := h.lookups.GetCategory(r.Context(), chi.URLParam(r, "url"), middleware.GetPrincipal(r.Context()))
	writeResult(w, r, h.logger, "Get category", result, err)
}

// CreateCategory handles category creation
func (h *LookupHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		decodeFailed(w, r, h.logger, err)
		return
	}

	result, err := h.lookups.CreateCategory(r.Context(), &domain.Category{
		Name:    req.Name,
		URL:     req.URL,
		Visible: req.Visible,
	})
	writeResult(w, r, h.logger, "Create category", result, err)
}

// ListProductTypes handles listing product types
func (h *LookupHandler) ListProductTypes(w http.ResponseWriter, r *http.Request) {
	result, err := h.lookups.ListProductTypes(r.Context())
	writeResult(w, r, h.logger, "List product types", result, err)
}

// CreateProductType handles product type creation
func (h *LookupHandler) CreateProductType(w http.ResponseWriter, r *http.Request) {
	var req ProductTypeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		decodeFailed(w, r, h.logger, err)
		return
	}

	result, err := h.lookups.CreateProductType(r.Context(), &domain.ProductType{Name: req.Name})
	writeResult(w, r, h.logger, "Create product type", result, err)
}
