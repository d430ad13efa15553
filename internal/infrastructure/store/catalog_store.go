package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/grocer-backend/internal/domain/catalog"
)

// CatalogStore implements catalog.Store and catalog.CategoryStore on
// PostgreSQL.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

const productColumns = `id, name, description, original_price, discounted_price,
	category, image_url, stock, is_open, unit, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OriginalPrice, &p.DiscountedPrice,
		&p.Category, &p.ImageURL, &p.Stock, &p.IsOpen, &p.Unit, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogStore) Insert(ctx context.Context, p *catalog.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.Name, p.Description, p.OriginalPrice, p.DiscountedPrice,
		p.Category, p.ImageURL, p.Stock, p.IsOpen, p.Unit, p.IsActive,
		p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *CatalogStore) Update(ctx context.Context, p *catalog.Product) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products
		 SET name = $2, description = $3, original_price = $4, discounted_price = $5,
		     category = $6, image_url = $7, stock = $8, is_open = $9, unit = $10,
		     updated_at = $11
		 WHERE id = $1 AND is_active`,
		p.ID, p.Name, p.Description, p.OriginalPrice, p.DiscountedPrice,
		p.Category, p.ImageURL, p.Stock, p.IsOpen, p.Unit, p.UpdatedAt)
	if err != nil {
		return err
	}
	return oneRowOr(res, catalog.ErrProductNotFound)
}

func (s *CatalogStore) Deactivate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = now() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return err
	}
	return oneRowOr(res, catalog.ErrProductNotFound)
}

func (s *CatalogStore) FindActive(ctx context.Context, id string) (*catalog.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND is_active`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, catalog.ErrProductNotFound
	}
	return p, err
}

func (s *CatalogStore) List(ctx context.Context, f catalog.ListFilter) ([]*catalog.Product, int, error) {
	where := `WHERE is_active`
	args := []any{}
	n := 0
	if f.Category != "" {
		n++
		where += fmt.Sprintf(` AND category = $%d`, n)
		args = append(args, f.Category)
	}
	if f.Search != "" {
		n++
		where += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, n, n)
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at"
	switch f.SortBy {
	case "name", "discounted_price", "stock":
		orderBy = f.SortBy
	}
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		productColumns, where, orderBy, dir, n+1, n+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// CategoryStore implements catalog.CategoryStore on PostgreSQL.
type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Insert(ctx context.Context, c *catalog.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt)
	return err
}

func (s *CategoryStore) Update(ctx context.Context, c *catalog.Category) error {
	res, err := s.db.ExecContext(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if err != nil {
		return err
	}
	return oneRowOr(res, catalog.ErrCategoryNotFound)
}

func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return oneRowOr(res, catalog.ErrCategoryNotFound)
}

func (s *CategoryStore) List(ctx context.Context) ([]*catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// oneRowOr maps a zero-rows-affected result to notFound.
func oneRowOr(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
