package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID          int64            `json:"id" db:"id"`
	Title       string           `json:"title" db:"title"`
	Description *string          `json:"description" db:"description"`
	ImageURL    string           `json:"imageUrl" db:"image_url"`
	CategoryID  int64            `json:"categoryId" db:"category_id"`
	Category    *Category        `json:"category,omitempty" db:"-"`
	Featured    bool             `json:"featured" db:"featured"`
	Visible     bool             `json:"visible" db:"visible"`
	Deleted     bool             `json:"deleted" db:"deleted"`
	Variants    []ProductVariant `json:"variants" db:"-"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
}

// IsVisible and IsDeleted expose the visibility flags to the policy package.
func (p *Product) IsVisible() bool { return p.Visible }
func (p *Product) IsDeleted() bool { return p.Deleted }

// ProductVariant is a priced flavour of a product, keyed by (ProductID, ProductTypeID)
type ProductVariant struct {
	ProductID     int64           `json:"productId" db:"product_id"`
	ProductTypeID int64           `json:"productTypeId" db:"product_type_id"`
	ProductType   *ProductType    `json:"productType,omitempty" db:"-"`
	Price         decimal.Decimal `json:"price" db:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice" db:"original_price"`
	Visible       bool            `json:"visible" db:"visible"`
	Deleted       bool            `json:"deleted" db:"deleted"`
}

func (v *ProductVariant) IsVisible() bool { return v.Visible }
func (v *ProductVariant) IsDeleted() bool { return v.Deleted }

// ProductType is a shared lookup dimension such as a size or an edition
type ProductType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Category represents a product category addressed by its URL slug
type Category struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	URL     string `json:"url" db:"url"`
	Visible bool   `json:"visible" db:"visible"`
	Deleted bool   `json:"deleted" db:"deleted"`
}

func (c *Category) IsVisible() bool { return c.Visible }
func (c *Category) IsDeleted() bool { return c.Deleted }

// ProductSearchResult is one page of search matches
type ProductSearchResult struct {
	Products    []*Product `json:"products"`
	CurrentPage int        `json:"currentPage"`
	Pages       int        `json:"pages"`
}
