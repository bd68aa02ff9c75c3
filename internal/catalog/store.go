package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bendito/catalog-api/internal/storage"
)

// Store encapsulates category and product persistence.
type Store struct {
	db      *sql.DB
	nowFunc func() time.Time
}

// NewStore creates a new catalog Store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		nowFunc: time.Now,
	}
}

// Category operations

// ListCategories returns all categories in store order.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, version, created_at, updated_at
		FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory fetches a category by id.
func (s *Store) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, version, created_at, updated_at
		FROM categories
		WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &CategoryNotFoundError{CategoryID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// CreateCategory inserts a new category and fills in the generated id,
// version and timestamps.
func (s *Store) CreateCategory(ctx context.Context, c *Category) error {
	now := s.nowFunc().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		c.Name, c.Description, now, now)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	c.Version = 1
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// UpdateCategory overwrites the category row if nobody changed it since the
// caller loaded it. The caller's Version must match the stored one.
func (s *Store) UpdateCategory(ctx context.Context, c *Category) error {
	now := s.nowFunc().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, description = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		c.Name, c.Description, now, c.ID, c.Version)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.classifyWriteMiss(ctx, "categories", c.ID, &CategoryNotFoundError{CategoryID: c.ID})
	}
	c.Version++
	c.UpdatedAt = now
	return nil
}

// DeleteCategory removes a category. Deletion is blocked while products still
// reference the category.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	var refs int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = ?`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count category references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("category %d is referenced by %d product(s): %w", id, refs, storage.ErrConflict)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &CategoryNotFoundError{CategoryID: id}
	}
	return nil
}

// Product operations

const productColumns = `
	p.id, p.name, p.description, p.price, p.stock_quantity, p.category_id,
	p.version, p.created_at, p.updated_at,
	c.id, c.name, c.description, c.version, c.created_at, c.updated_at`

func scanProduct(scan func(dest ...any) error) (*Product, error) {
	var (
		p     Product
		c     Category
		price string
	)
	err := scan(
		&p.ID, &p.Name, &p.Description, &price, &p.StockQuantity, &p.CategoryID,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Description, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid stored price %q: %w", price, err)
	}
	p.Category = &c
	return &p, nil
}

// ListProducts returns all products with their categories resolved.
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetProduct fetches a product by id with its category resolved.
func (s *Store) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = ?`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// CreateProduct inserts a new product. The referenced category must exist;
// the check runs before the write so a dangling reference is reported as
// not-found rather than a constraint violation.
func (s *Store) CreateProduct(ctx context.Context, p *Product) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM categories WHERE id = ?`, p.CategoryID).Scan(&exists)
	if err == sql.ErrNoRows {
		return &CategoryNotFoundError{CategoryID: p.CategoryID}
	}
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}

	now := s.nowFunc().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, description, price, stock_quantity, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Price.String(), p.StockQuantity, p.CategoryID, now, now)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Category = nil
	return nil
}

// UpdateProduct overwrites the product row with a version check. The category
// reference is not re-validated here; only creation checks it.
func (s *Store) UpdateProduct(ctx context.Context, p *Product) error {
	now := s.nowFunc().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, stock_quantity = ?, category_id = ?,
		    version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		p.Name, p.Description, p.Price.String(), p.StockQuantity, p.CategoryID,
		now, p.ID, p.Version)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.classifyWriteMiss(ctx, "products", p.ID, &ProductNotFoundError{ProductID: p.ID})
	}
	p.Version++
	p.UpdatedAt = now
	return nil
}

// DeleteProduct removes a product by id.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &ProductNotFoundError{ProductID: id}
	}
	return nil
}

// classifyWriteMiss disambiguates a zero-row optimistic write: the row is
// either gone (not found) or still present but changed (conflict).
func (s *Store) classifyWriteMiss(ctx context.Context, table string, id int64, notFound error) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("recheck %s row: %w", table, err)
	}
	return fmt.Errorf("%s row %d was modified concurrently: %w", table, id, storage.ErrConflict)
}
