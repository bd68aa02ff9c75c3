package catalog

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bendito/catalog-api/internal/storage"
)

// Category groups products for display purposes.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a catalog entry. CategoryID is a soft reference checked when the
// product is created; Category is populated on reads only.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryID    int64           `json:"category_id"`
	Category      *Category       `json:"category,omitempty"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CategoryNotFoundError reports a missing category by id. It unwraps to
// storage.ErrNotFound so callers can classify it without knowing the type.
type CategoryNotFoundError struct {
	CategoryID int64
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category %d not found", e.CategoryID)
}

func (e *CategoryNotFoundError) Unwrap() error { return storage.ErrNotFound }

// ProductNotFoundError reports a missing product by id.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return storage.ErrNotFound }
