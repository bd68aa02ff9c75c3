package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bendito/catalog-api/internal/catalog"
	"github.com/bendito/catalog-api/internal/storage"
)

// Order is the aggregate root: it owns its items, which are created and
// deleted with it and never on their own.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Items       []OrderItem     `json:"items"`
}

// OrderItem is one line of an order. The parent is referenced only through
// OrderID; there is no live back-pointer, so serializing an order never
// cycles. Product is populated on reads and not persisted redundantly.
type OrderItem struct {
	ID         int64            `json:"id"`
	OrderID    int64            `json:"order_id"`
	ProductID  int64            `json:"product_id"`
	Quantity   int              `json:"quantity"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Product    *catalog.Product `json:"product,omitempty"`
}

// NewOrder is the input to Store.Create. Item totals are not part of it:
// they are always computed from the product price at creation time.
type NewOrder struct {
	UserID      int64
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	Items       []NewOrderItem
}

// NewOrderItem references a product to be resolved during creation.
type NewOrderItem struct {
	ProductID int64
	Quantity  int
}

// OrderNotFoundError reports a missing order by id.
type OrderNotFoundError struct {
	OrderID int64
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %d not found", e.OrderID)
}

func (e *OrderNotFoundError) Unwrap() error { return storage.ErrNotFound }

// StampUTC re-tags the wall-clock reading of t as UTC without converting it.
// A date submitted as 10:00+02:00 is stored as 10:00Z, not 08:00Z.
func StampUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
