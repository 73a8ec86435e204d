package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a shopper's reference to a product variant. It is not guaranteed
// to resolve against the current catalog.
type CartItem struct {
	ID            uuid.UUID `json:"-" db:"id"`
	UserID        int64     `json:"userId" db:"user_id"`
	ProductID     int64     `json:"productId" db:"product_id"`
	ProductTypeID int64     `json:"productTypeId" db:"product_type_id"`
	Quantity      int       `json:"quantity" db:"quantity"`
	CreatedAt     time.Time `json:"-" db:"created_at"`
}

// CartLineItem is a cart item priced against the live catalog. It is never persisted.
type CartLineItem struct {
	ProductID     int64           `json:"productId"`
	Title         string          `json:"title"`
	ImageURL      string          `json:"imageUrl"`
	Price         decimal.Decimal `json:"price"`
	ProductType   string          `json:"productType"`
	ProductTypeID int64           `json:"productTypeId"`
	Quantity      int             `json:"quantity"`
}
