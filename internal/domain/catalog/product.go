package catalog

import (
	"context"
	"errors"
	"time"
)

// Unit is the selling unit of a product.
type Unit string

const (
	UnitPiece Unit = "piece"
	UnitKg    Unit = "kg"
	UnitGram  Unit = "gram"
	UnitLiter Unit = "liter"
	UnitMl    Unit = "ml"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidUnit       = errors.New("invalid product unit")
	ErrCategoryNotFound  = errors.New("category not found")
)

// ValidUnit reports whether u is one of the known selling units.
func ValidUnit(u Unit) bool {
	switch u {
	case UnitPiece, UnitKg, UnitGram, UnitLiter, UnitMl:
		return true
	}
	return false
}

// Product is a catalog entry. DiscountedPrice is the price actually charged.
// Stock is meaningless for open products (sold by weight/volume); open
// products never have their stock decremented.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	OriginalPrice   int       `json:"original_price"`
	DiscountedPrice int       `json:"discounted_price"`
	Category        string    `json:"category"`
	ImageURL        string    `json:"image_url,omitempty"`
	Stock           int       `json:"stock"`
	IsOpen          bool      `json:"is_open"`
	Unit            Unit      `json:"unit"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Category groups products by name.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFilter narrows and pages a product listing.
type ListFilter struct {
	Category  string
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// Store is the persistence contract for products.
type Store interface {
	Insert(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Deactivate(ctx context.Context, id string) error
	// FindActive returns ErrProductNotFound for missing or inactive products.
	FindActive(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, f ListFilter) ([]*Product, int, error)
}

// CategoryStore is the persistence contract for categories.
type CategoryStore interface {
	Insert(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Category, error)
}
