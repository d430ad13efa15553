package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	products   Store
	categories CategoryStore
}

func NewService(products Store, categories CategoryStore) *Service {
	return &Service{products: products, categories: categories}
}

// ProductInput carries admin-supplied product fields.
type ProductInput struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	OriginalPrice   int    `json:"original_price"`
	DiscountedPrice int    `json:"discounted_price"`
	Category        string `json:"category"`
	ImageURL        string `json:"image_url"`
	Stock           int    `json:"stock"`
	IsOpen          bool   `json:"is_open"`
	Unit            Unit   `json:"unit"`
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if in.Unit == "" {
		in.Unit = UnitPiece
	}
	if !ValidUnit(in.Unit) {
		return nil, ErrInvalidUnit
	}

	now := time.Now()
	p := &Product{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		OriginalPrice:   in.OriginalPrice,
		DiscountedPrice: in.DiscountedPrice,
		Category:        in.Category,
		ImageURL:        in.ImageURL,
		Stock:           in.Stock,
		IsOpen:          in.IsOpen,
		Unit:            in.Unit,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.products.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	p, err := s.products.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Unit != "" && !ValidUnit(in.Unit) {
		return nil, ErrInvalidUnit
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.OriginalPrice = in.OriginalPrice
	p.DiscountedPrice = in.DiscountedPrice
	p.Category = in.Category
	p.ImageURL = in.ImageURL
	p.Stock = in.Stock
	p.IsOpen = in.IsOpen
	if in.Unit != "" {
		p.Unit = in.Unit
	}
	p.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeactivateProduct soft-deletes a product. Past orders keep their snapshots.
func (s *Service) DeactivateProduct(ctx context.Context, id string) error {
	return s.products.Deactivate(ctx, id)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.products.FindActive(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, f ListFilter) ([]*Product, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return s.products.List(ctx, f)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	c := &Category{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
	if err := s.categories.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RenameCategory(ctx context.Context, id, name string) (*Category, error) {
	c := &Category{ID: id, Name: strings.TrimSpace(name)}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.categories.List(ctx)
}
