package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProductStore struct {
	products map[string]*Product

	DeactivateCalls []string
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{products: map[string]*Product{}}
}

func (m *mockProductStore) Insert(_ context.Context, p *Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockProductStore) Update(_ context.Context, p *Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return ErrProductNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockProductStore) Deactivate(_ context.Context, id string) error {
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return ErrProductNotFound
	}
	p.IsActive = false
	m.DeactivateCalls = append(m.DeactivateCalls, id)
	return nil
}

func (m *mockProductStore) FindActive(_ context.Context, id string) (*Product, error) {
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductStore) List(_ context.Context, f ListFilter) ([]*Product, int, error) {
	var out []*Product
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

type mockCategoryStore struct {
	categories map[string]*Category
}

func newMockCategoryStore() *mockCategoryStore {
	return &mockCategoryStore{categories: map[string]*Category{}}
}

func (m *mockCategoryStore) Insert(_ context.Context, c *Category) error {
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryStore) Update(_ context.Context, c *Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return ErrCategoryNotFound
	}
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryStore) Delete(_ context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryStore) List(_ context.Context) ([]*Category, error) {
	var out []*Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func newTestCatalogService() (*Service, *mockProductStore, *mockCategoryStore) {
	products := newMockProductStore()
	categories := newMockCategoryStore()
	return NewService(products, categories), products, categories
}

// ============================================
// Product Tests
// ============================================

func TestService_CreateProduct(t *testing.T) {
	service, store, _ := newTestCatalogService()
	ctx := context.Background()

	p, err := service.CreateProduct(ctx, ProductInput{
		Name:            "  Amul Milk 500ml ",
		OriginalPrice:   60,
		DiscountedPrice: 54,
		Category:        "dairy",
		Stock:           40,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Amul Milk 500ml", p.Name)
	assert.Equal(t, UnitPiece, p.Unit) // default
	assert.True(t, p.IsActive)
	assert.Contains(t, store.products, p.ID)
}

func TestService_CreateProduct_InvalidUnit(t *testing.T) {
	service, _, _ := newTestCatalogService()
	ctx := context.Background()

	p, err := service.CreateProduct(ctx, ProductInput{Name: "Rice", Unit: "sack"})

	assert.ErrorIs(t, err, ErrInvalidUnit)
	assert.Nil(t, p)
}

func TestService_UpdateProduct(t *testing.T) {
	service, store, _ := newTestCatalogService()
	ctx := context.Background()

	store.products["p1"] = &Product{ID: "p1", Name: "Old", Unit: UnitPiece, IsActive: true}

	p, err := service.UpdateProduct(ctx, "p1", ProductInput{
		Name:            "New Name",
		DiscountedPrice: 99,
		Unit:            UnitKg,
	})

	require.NoError(t, err)
	assert.Equal(t, "New Name", p.Name)
	assert.Equal(t, 99, p.DiscountedPrice)
	assert.Equal(t, UnitKg, p.Unit)
}

func TestService_UpdateProduct_KeepsUnitWhenOmitted(t *testing.T) {
	service, store, _ := newTestCatalogService()
	ctx := context.Background()

	store.products["p1"] = &Product{ID: "p1", Name: "Rice", Unit: UnitKg, IsActive: true}

	p, err := service.UpdateProduct(ctx, "p1", ProductInput{Name: "Rice"})

	require.NoError(t, err)
	assert.Equal(t, UnitKg, p.Unit)
}

func TestService_UpdateProduct_NotFound(t *testing.T) {
	service, _, _ := newTestCatalogService()
	ctx := context.Background()

	_, err := service.UpdateProduct(ctx, "missing", ProductInput{Name: "X"})

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_DeactivateProduct(t *testing.T) {
	service, store, _ := newTestCatalogService()
	ctx := context.Background()

	store.products["p1"] = &Product{ID: "p1", IsActive: true}

	err := service.DeactivateProduct(ctx, "p1")

	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, store.DeactivateCalls)

	// Soft-deleted products disappear from reads
	_, err = service.GetProduct(ctx, "p1")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_ListProducts_DefaultLimit(t *testing.T) {
	service, store, _ := newTestCatalogService()
	ctx := context.Background()

	store.products["p1"] = &Product{ID: "p1", Category: "dairy", IsActive: true}
	store.products["p2"] = &Product{ID: "p2", Category: "bakery", IsActive: true}
	store.products["p3"] = &Product{ID: "p3", Category: "dairy", IsActive: false}

	products, total, err := service.ListProducts(ctx, ListFilter{Category: "dairy"})

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
}

// ============================================
// Category Tests
// ============================================

func TestService_CreateCategory(t *testing.T) {
	service, _, categories := newTestCatalogService()
	ctx := context.Background()

	c, err := service.CreateCategory(ctx, " Dairy ")

	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Dairy", c.Name)
	assert.Contains(t, categories.categories, c.ID)
}

func TestService_RenameCategory_NotFound(t *testing.T) {
	service, _, _ := newTestCatalogService()
	ctx := context.Background()

	_, err := service.RenameCategory(ctx, "missing", "Bakery")

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestService_DeleteCategory(t *testing.T) {
	service, _, categories := newTestCatalogService()
	ctx := context.Background()

	categories.categories["c1"] = &Category{ID: "c1", Name: "Dairy"}

	require.NoError(t, service.DeleteCategory(ctx, "c1"))
	assert.NotContains(t, categories.categories, "c1")
}
