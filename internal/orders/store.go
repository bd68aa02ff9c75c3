package orders

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bendito/catalog-api/internal/catalog"
	"github.com/bendito/catalog-api/internal/storage"
)

// Store encapsulates order aggregate persistence. Product resolution during
// creation goes through the catalog store so items carry the same product
// representation as catalog reads.
type Store struct {
	db      *sql.DB
	catalog *catalog.Store
	nowFunc func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(db *sql.DB, catalogStore *catalog.Store) *Store {
	return &Store{
		db:      db,
		catalog: catalogStore,
		nowFunc: time.Now,
	}
}

// Create validates and persists a new order aggregate.
//
// Every item's product is resolved (with its category) before the first
// write; the first unresolvable product aborts the whole operation with an
// error naming its id, and nothing is persisted. Each item's total is
// computed as price * quantity, discarding whatever the caller supplied.
// The order's TotalAmount is taken verbatim from the request and is not
// cross-checked against the item totals.
func (s *Store) Create(ctx context.Context, req NewOrder) (*Order, error) {
	now := s.nowFunc().UTC()
	order := &Order{
		UserID:      req.UserID,
		OrderDate:   StampUTC(req.OrderDate),
		TotalAmount: req.TotalAmount,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       make([]OrderItem, 0, len(req.Items)),
	}

	for _, item := range req.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			Product:    product,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, order_date, total_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		order.UserID, order.OrderDate, order.TotalAmount.String(), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	order.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		result, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, total_price)
			VALUES (?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.Quantity, item.TotalPrice.String())
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		item.ID, err = result.LastInsertId()
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	return order, nil
}

// Get fetches one order with its items, each item's product and the
// product's category.
func (s *Store) Get(ctx context.Context, id int64) (*Order, error) {
	order, err := s.scanOrder(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, order_date, total_amount, version, created_at, updated_at
		FROM orders
		WHERE id = ?`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, &OrderNotFoundError{OrderID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.Items, err = s.loadItems(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns all orders fully reconstructed. Order is store-determined.
func (s *Store) List(ctx context.Context) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, order_date, total_amount, version, created_at, updated_at
		FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	result := []Order{}
	for rows.Next() {
		order, err := s.scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if result[i].Items, err = s.loadItems(ctx, result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Update overwrites the order's scalar fields (user id, order date, total
// amount) with a version check. Items are immutable after creation; any items
// on the passed order are ignored.
func (s *Store) Update(ctx context.Context, o *Order) error {
	now := s.nowFunc().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET user_id = ?, order_date = ?, total_amount = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		o.UserID, StampUTC(o.OrderDate), o.TotalAmount.String(), now, o.ID, o.Version)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE id = ?`, o.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return &OrderNotFoundError{OrderID: o.ID}
		}
		if err != nil {
			return fmt.Errorf("recheck order row: %w", err)
		}
		return fmt.Errorf("order %d was modified concurrently: %w", o.ID, storage.ErrConflict)
	}
	o.OrderDate = StampUTC(o.OrderDate)
	o.Version++
	o.UpdatedAt = now
	return nil
}

// Delete removes an order; the schema cascades the delete to its items in
// the same statement.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &OrderNotFoundError{OrderID: id}
	}
	return nil
}

func (s *Store) scanOrder(scan func(dest ...any) error) (*Order, error) {
	var (
		o     Order
		total string
	)
	err := scan(&o.ID, &o.UserID, &o.OrderDate, &total, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.TotalAmount, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("invalid stored total amount %q: %w", total, err)
	}
	o.OrderDate = o.OrderDate.UTC()
	return &o, nil
}

// loadItems reconstructs an order's items with product and category resolved.
// Items come back in insertion order.
func (s *Store) loadItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.order_id, i.product_id, i.quantity, i.total_price,
		       p.id, p.name, p.description, p.price, p.stock_quantity, p.category_id,
		       p.version, p.created_at, p.updated_at,
		       c.id, c.name, c.description, c.version, c.created_at, c.updated_at
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE i.order_id = ?
		ORDER BY i.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var (
			item       OrderItem
			product    catalog.Product
			category   catalog.Category
			totalPrice string
			price      string
		)
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &totalPrice,
			&product.ID, &product.Name, &product.Description, &price, &product.StockQuantity,
			&product.CategoryID, &product.Version, &product.CreatedAt, &product.UpdatedAt,
			&category.ID, &category.Name, &category.Description, &category.Version,
			&category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if item.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
			return nil, fmt.Errorf("invalid stored item total %q: %w", totalPrice, err)
		}
		if product.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid stored price %q: %w", price, err)
		}
		product.Category = &category
		item.Product = &product
		items = append(items, item)
	}
	return items, rows.Err()
}
