package validation

import "github.com/shopspring/decimal"

// CreateCategoryRequest is the payload for POST /api/categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// UpdateCategoryRequest is the payload for PUT /api/categories/:id.
// Version must carry the value from the read the edit was based on.
type UpdateCategoryRequest struct {
	ID          int64  `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Version     int    `json:"version" validate:"required,min=1"`
}

// CreateProductRequest is the payload for POST /api/products.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	CategoryID    int64           `json:"category_id" validate:"required"`
}

// UpdateProductRequest is the payload for PUT /api/products/:id.
type UpdateProductRequest struct {
	ID            int64           `json:"id" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	CategoryID    int64           `json:"category_id" validate:"required"`
	Version       int             `json:"version" validate:"required,min=1"`
}

// OrderItemPayload is a single requested line item. TotalPrice is accepted
// for shape compatibility but always recomputed from the product price.
type OrderItemPayload struct {
	ProductID  int64           `json:"product_id" validate:"required"`
	Quantity   int             `json:"quantity" validate:"required,min=1"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CreateOrderRequest is the payload for POST /api/orders. OrderDate accepts
// RFC3339 and timezone-naive timestamps; see ParseOrderDate.
type CreateOrderRequest struct {
	UserID      int64              `json:"user_id" validate:"required"`
	OrderDate   string             `json:"order_date" validate:"required"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []OrderItemPayload `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest is the payload for PUT /api/orders/:id. Items are
// immutable after creation and ignored here.
type UpdateOrderRequest struct {
	ID          int64              `json:"id" validate:"required"`
	UserID      int64              `json:"user_id" validate:"required"`
	OrderDate   string             `json:"order_date" validate:"required"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Version     int                `json:"version" validate:"required,min=1"`
	Items       []OrderItemPayload `json:"items"`
}
