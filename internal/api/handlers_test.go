package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/grocer-backend/internal/auth"
	"github.com/example/grocer-backend/internal/domain/bcoin"
	"github.com/example/grocer-backend/internal/domain/catalog"
	"github.com/example/grocer-backend/internal/domain/order"
	"github.com/example/grocer-backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Fakes
// ============================================

type fakeOrderService struct {
	orders map[string]*order.Order

	PlaceErr  error
	PlaceReqs []order.PlaceRequest
}

func newFakeOrderService() *fakeOrderService {
	return &fakeOrderService{orders: map[string]*order.Order{}}
}

func (f *fakeOrderService) Place(_ context.Context, userID string, req order.PlaceRequest) (*order.Order, error) {
	if f.PlaceErr != nil {
		return nil, f.PlaceErr
	}
	f.PlaceReqs = append(f.PlaceReqs, req)
	o := &order.Order{ID: "order-new", UserID: userID, Status: order.StatusPending, TotalAmount: 130}
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrderService) UpdateStatus(_ context.Context, orderID string, target order.Status) (*order.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if !o.CanTransitionTo(target) {
		return nil, order.ErrInvalidStatus
	}
	o.Status = target
	return o, nil
}

func (f *fakeOrderService) Get(_ context.Context, orderID string) (*order.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrderService) ListByUser(_ context.Context, userID string, status order.Status, limit, offset int) ([]*order.Order, int, error) {
	var out []*order.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (f *fakeOrderService) List(_ context.Context, _ order.ListFilter) ([]*order.Order, int, error) {
	var out []*order.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

type fakeCatalogService struct {
	products map[string]*catalog.Product
}

func newFakeCatalogService() *fakeCatalogService {
	return &fakeCatalogService{products: map[string]*catalog.Product{}}
}

func (f *fakeCatalogService) CreateProduct(_ context.Context, in catalog.ProductInput) (*catalog.Product, error) {
	p := &catalog.Product{ID: "prod-new", Name: in.Name, IsActive: true}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeCatalogService) UpdateProduct(_ context.Context, id string, in catalog.ProductInput) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	p.Name = in.Name
	return p, nil
}

func (f *fakeCatalogService) DeactivateProduct(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return catalog.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalogService) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalogService) ListProducts(_ context.Context, _ catalog.ListFilter) ([]*catalog.Product, int, error) {
	var out []*catalog.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeCatalogService) CreateCategory(_ context.Context, name string) (*catalog.Category, error) {
	return &catalog.Category{ID: "cat-new", Name: name}, nil
}

func (f *fakeCatalogService) RenameCategory(_ context.Context, id, name string) (*catalog.Category, error) {
	return &catalog.Category{ID: id, Name: name}, nil
}

func (f *fakeCatalogService) DeleteCategory(_ context.Context, _ string) error { return nil }

func (f *fakeCatalogService) ListCategories(_ context.Context) ([]*catalog.Category, error) {
	return []*catalog.Category{{ID: "c1", Name: "Dairy"}}, nil
}

type fakeUserService struct {
	profiles map[string]*user.User
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{profiles: map[string]*user.User{}}
}

func (f *fakeUserService) EnsureProfile(_ context.Context, id user.Identity) (*user.User, error) {
	if u, ok := f.profiles[id.ID]; ok {
		return u, nil
	}
	u := &user.User{ID: id.ID, Email: id.Email, Name: id.Name, Role: user.RoleUser, IsActive: true}
	f.profiles[u.ID] = u
	return u, nil
}

func (f *fakeUserService) UpdateProfile(_ context.Context, userID, name, phone string) (*user.User, error) {
	u, ok := f.profiles[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	u.Name, u.Phone = name, phone
	return u, nil
}

func (f *fakeUserService) AddAddress(_ context.Context, userID string, in user.AddressInput) ([]user.Address, error) {
	u, ok := f.profiles[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	u.Addresses = append(u.Addresses, user.Address{ID: "addr-new", Address: in.Address, IsDefault: true})
	return u.Addresses, nil
}

func (f *fakeUserService) UpdateAddress(_ context.Context, userID, addressID string, in user.AddressInput) ([]user.Address, error) {
	return nil, user.ErrAddressNotFound
}

func (f *fakeUserService) DeleteAddress(_ context.Context, userID, addressID string) ([]user.Address, error) {
	return nil, user.ErrAddressNotFound
}

func (f *fakeUserService) List(_ context.Context, _ string, _, _ int) ([]*user.User, int, error) {
	var out []*user.User
	for _, u := range f.profiles {
		out = append(out, u)
	}
	return out, len(out), nil
}

type fakeBcoinService struct{}

func (f *fakeBcoinService) History(_ context.Context, userID string, limit, offset int) (*bcoin.History, error) {
	return &bcoin.History{
		Entries:        []*bcoin.Entry{{ID: "e1", UserID: userID, Bcoins: 2, TransactionType: bcoin.TypeEarned}},
		CurrentBalance: 2,
		Total:          1,
	}, nil
}

// ============================================
// Harness
// ============================================

type testEnv struct {
	router  http.Handler
	jwt     *auth.JWTService
	orders  *fakeOrderService
	catalog *fakeCatalogService
	users   *fakeUserService
}

func newTestEnv() *testEnv {
	jwtService := auth.NewJWTService("test-secret-key-for-testing-purposes", 15*time.Minute)
	orders := newFakeOrderService()
	cat := newFakeCatalogService()
	users := newFakeUserService()
	handlers := NewHandlers(orders, cat, users, &fakeBcoinService{})
	return &testEnv{
		router:  NewRouter(handlers, jwtService),
		jwt:     jwtService,
		orders:  orders,
		catalog: cat,
		users:   users,
	}
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, _, err := e.jwt.GenerateToken(userID, userID+"@example.com", "Test User", role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}
	r := httptest.NewRequest(method, path, reader)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

// ============================================
// Order Endpoint Tests
// ============================================

func TestCreateOrder_RequiresAuth(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodPost, "/api/orders/create-order", "", map[string]any{})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrder_Success(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, "user-1", "user")

	w := env.do(t, http.MethodPost, "/api/orders/create-order", token, map[string]any{
		"items":       []map[string]any{{"product_id": "p1", "quantity": 2}},
		"bcoins_used": 5,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var got order.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "order-new", got.ID)
	assert.Equal(t, "user-1", got.UserID)

	require.Len(t, env.orders.PlaceReqs, 1)
	assert.Equal(t, 5, env.orders.PlaceReqs[0].BcoinsUsed)
}

func TestCreateOrder_BusinessErrorIs400(t *testing.T) {
	env := newTestEnv()
	env.orders.PlaceErr = catalog.ErrInsufficientStock
	token := env.token(t, "user-1", "user")

	w := env.do(t, http.MethodPost, "/api/orders/create-order", token, map[string]any{
		"items": []map[string]any{{"product_id": "p1", "quantity": 99}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")
}

func TestCreateOrder_InfrastructureErrorIsOpaque500(t *testing.T) {
	env := newTestEnv()
	env.orders.PlaceErr = assert.AnError
	token := env.token(t, "user-1", "user")

	w := env.do(t, http.MethodPost, "/api/orders/create-order", token, map[string]any{
		"items": []map[string]any{{"product_id": "p1", "quantity": 1}},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal error")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestMyOrders_PaginationEnvelope(t *testing.T) {
	env := newTestEnv()
	env.orders.orders["o1"] = &order.Order{ID: "o1", UserID: "user-1"}
	token := env.token(t, "user-1", "user")

	w := env.do(t, http.MethodGet, "/api/orders/my-orders?page=1&limit=10", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Data       []order.Order `json:"data"`
		Pagination struct {
			CurrentPage int `json:"current_page"`
			TotalPages  int `json:"total_pages"`
			TotalItems  int `json:"total_items"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Data, 1)
	assert.Equal(t, 1, got.Pagination.CurrentPage)
	assert.Equal(t, 1, got.Pagination.TotalPages)
	assert.Equal(t, 1, got.Pagination.TotalItems)
}

func TestGetOrder_OwnerOnly(t *testing.T) {
	env := newTestEnv()
	env.orders.orders["o1"] = &order.Order{ID: "o1", UserID: "user-1"}

	// Owner sees the order
	w := env.do(t, http.MethodGet, "/api/orders/o1", env.token(t, "user-1", "user"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another buyer gets 404, not 403: existence is not leaked
	w = env.do(t, http.MethodGet, "/api/orders/o1", env.token(t, "user-2", "user"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Admin sees everything
	w = env.do(t, http.MethodGet, "/api/orders/o1", env.token(t, "admin-1", "admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListOrders_AdminOnly(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/api/orders", env.token(t, "user-1", "user"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/orders", env.token(t, "admin-1", "admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateOrderStatus_AdminOnly(t *testing.T) {
	env := newTestEnv()
	env.orders.orders["o1"] = &order.Order{ID: "o1", UserID: "user-1", Status: order.StatusPending}

	w := env.do(t, http.MethodPatch, "/api/orders/o1/status", env.token(t, "user-1", "user"),
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPatch, "/api/orders/o1/status", env.token(t, "admin-1", "admin"),
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)

	var got order.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, order.StatusConfirmed, got.Status)
}

func TestUpdateOrderStatus_InvalidTransitionIs400(t *testing.T) {
	env := newTestEnv()
	env.orders.orders["o1"] = &order.Order{ID: "o1", Status: order.StatusPending}

	w := env.do(t, http.MethodPatch, "/api/orders/o1/status", env.token(t, "admin-1", "admin"),
		map[string]string{"status": "delivered"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ============================================
// Catalog Endpoint Tests
// ============================================

func TestListProducts_Public(t *testing.T) {
	env := newTestEnv()
	env.catalog.products["p1"] = &catalog.Product{ID: "p1", Name: "Milk", IsActive: true}

	// No token at all
	w := env.do(t, http.MethodGet, "/api/products", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Milk")
}

func TestCreateProduct_AdminOnly(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodPost, "/api/products", "", map[string]string{"name": "Milk"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/products", env.token(t, "user-1", "user"),
		map[string]string{"name": "Milk"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/products", env.token(t, "admin-1", "admin"),
		map[string]string{"name": "Milk"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/api/products/missing", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCategories_Public(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/api/categories", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dairy")
}

// ============================================
// User Endpoint Tests
// ============================================

func TestGetProfile_LazyCreation(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, "auth0|new-user", "user")

	w := env.do(t, http.MethodGet, "/api/users/profile", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var got user.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "auth0|new-user", got.ID)
	assert.Contains(t, env.users.profiles, "auth0|new-user")
}

func TestAddAddress(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, "user-1", "user")

	// Profile is created on first authenticated request
	env.do(t, http.MethodGet, "/api/users/profile", token, nil)

	w := env.do(t, http.MethodPost, "/api/users/addresses", token,
		map[string]string{"address": "12 Main St", "city": "Pune"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "addr-new")
}

func TestBcoinHistory(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, "user-1", "user")

	w := env.do(t, http.MethodGet, "/api/users/bcoins", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "current_balance")
}

func TestListUsers_AdminOnly(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/api/users", env.token(t, "user-1", "user"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/users", env.token(t, "admin-1", "admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
