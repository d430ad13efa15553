package api

import (
	"context"
	"net/http"

	"github.com/example/grocer-backend/internal/api/middleware"
	"github.com/example/grocer-backend/internal/auth"
	"github.com/example/grocer-backend/internal/domain/bcoin"
	"github.com/example/grocer-backend/internal/domain/catalog"
	"github.com/example/grocer-backend/internal/domain/order"
	"github.com/example/grocer-backend/internal/domain/user"
)

// Service surfaces consumed by the HTTP layer.

type OrderService interface {
	Place(ctx context.Context, userID string, req order.PlaceRequest) (*order.Order, error)
	UpdateStatus(ctx context.Context, orderID string, target order.Status) (*order.Order, error)
	Get(ctx context.Context, orderID string) (*order.Order, error)
	ListByUser(ctx context.Context, userID string, status order.Status, limit, offset int) ([]*order.Order, int, error)
	List(ctx context.Context, f order.ListFilter) ([]*order.Order, int, error)
}

type CatalogService interface {
	CreateProduct(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, in catalog.ProductInput) (*catalog.Product, error)
	DeactivateProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	ListProducts(ctx context.Context, f catalog.ListFilter) ([]*catalog.Product, int, error)
	CreateCategory(ctx context.Context, name string) (*catalog.Category, error)
	RenameCategory(ctx context.Context, id, name string) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]*catalog.Category, error)
}

type UserService interface {
	EnsureProfile(ctx context.Context, id user.Identity) (*user.User, error)
	UpdateProfile(ctx context.Context, userID, name, phone string) (*user.User, error)
	AddAddress(ctx context.Context, userID string, in user.AddressInput) ([]user.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, in user.AddressInput) ([]user.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) ([]user.Address, error)
	List(ctx context.Context, search string, limit, offset int) ([]*user.User, int, error)
}

type BcoinService interface {
	History(ctx context.Context, userID string, limit, offset int) (*bcoin.History, error)
}

type Handlers struct {
	orders  OrderService
	catalog CatalogService
	users   UserService
	bcoins  BcoinService
}

func NewHandlers(orders OrderService, cat CatalogService, users UserService, bcoins BcoinService) *Handlers {
	return &Handlers{orders: orders, catalog: cat, users: users, bcoins: bcoins}
}

// claims returns the verified identity claims; the auth middleware runs
// first on every route that calls this.
func claims(r *http.Request) *auth.Claims {
	c, _ := middleware.GetUserFromContext(r.Context())
	return c
}

func isAdmin(r *http.Request) bool {
	c, ok := middleware.GetUserFromContext(r.Context())
	return ok && c.Role == string(user.RoleAdmin)
}
