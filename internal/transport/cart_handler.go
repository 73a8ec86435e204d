package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartItemRequest is one reference to be stored in the signed-in user's cart
type CartItemRequest struct {
	ProductID     int64 `json:"productId" validate:"required,gt=0"`
	ProductTypeID int64 `json:"productTypeId" validate:"required,gt=0"`
	Quantity      int   `json:"quantity" validate:"gt=0,lte=2147483647"`
}

// CartReferenceRequest is one reference from a client-held cart. References
// that do not resolve are dropped by the service, so nothing is validated here.
type CartReferenceRequest struct {
	ProductID     int64 `json:"productId"`
	ProductTypeID int64 `json:"productTypeId"`
	Quantity      int   `json:"quantity"`
}

func toCartItems(reqs []CartItemRequest) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, domain.CartItem{
			ProductID:     req.ProductID,
			ProductTypeID: req.ProductTypeID,
			Quantity:      req.Quantity,
		})
	}
	return items
}

// CartHandler handles HTTP requests for cart resolution and storage
type CartHandler struct {
	cart   service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cart:   cart,
		logger: logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/api/cart", func(r chi.Router) {
		// Guests resolve the cart they hold client-side
		r.With(guards.Optional).Post("/products", h.Resolve)

		// Stored carts belong to a signed-in user; the service answers
		// anonymous callers with an Unauthenticated result
		r.Group(func(r chi.Router) {
			r.Use(guards.Optional)
			r.Post("/", h.Store)
			r.Get("/count", h.Count)
		})
	})
}

// Resolve handles pricing a client-held list of cart references
func (h *CartHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	refs, err := middleware.DecodeAndValidateList[CartReferenceRequest](r)
	if err != nil {
		decodeFailed(w, r, h.logger, err)
		return
	}

	reqs := make([]CartItemRequest, len(refs))
	for i, ref := range refs {
		reqs[i] = CartItemRequest(ref)
	}

	result, err := h.cart.ResolveCartItems(r.Context(), middleware.GetPrincipal(r.Context()), toCartItems(reqs))
	writeResult(w, r, h.logger, "Resolve cart", result, err)
}

// Store handles persisting cart references for the signed-in user
func (h *CartHandler) Store(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if !principal.Authenticated() {
		result, err := h.cart.StoreCartItems(r.Context(), principal, nil)
		writeResult(w, r, h.logger, "Store cart", result, err)
		return
	}

	reqs, err := middleware.DecodeAndValidateList[CartItemRequest](r)
	if err != nil {
		decodeFailed(w, r, h.logger, err)
		return
	}

	result, err := h.cart.StoreCartItems(r.Context(), principal, toCartItems(reqs))
	writeResult(w, r, h.logger, "Store cart", result, err)
}

// Count handles counting the signed-in user's stored references
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	result, err := h.cart.CountCartItems(r.Context(), middleware.GetPrincipal(r.Context()))
	writeResult(w, r, h.logger, "Count cart", result, err)
}
