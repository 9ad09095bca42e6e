package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmconnect/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	Count(ctx context.Context) (int, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts an order and its line items in a single transaction.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, user_id, total_amount, shipping_address,
			customer_name, customer_phone, payment_method, status,
			payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(
		ctx,
		orderQuery,
		order.ID,
		order.UserID,
		order.TotalAmount,
		order.ShippingAddress,
		order.CustomerName,
		order.CustomerPhone,
		order.PaymentMethod,
		order.Status,
		order.PaymentStatus,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, item := range order.Items {
		_, err = tx.ExecContext(
			ctx,
			itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

const orderColumns = `id, user_id, total_amount, shipping_address,
	customer_name, customer_phone, payment_method, status,
	payment_status, created_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.ShippingAddress,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.PaymentMethod,
		&order.Status,
		&order.PaymentStatus,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID retrieves an order with its line items.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

// ListByUser retrieves a user's orders with line items, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	orderIDs := []uuid.UUID{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Items = items[order.ID]
	}

	return orders, nil
}

// loadItems fetches line items for a set of orders in one query.
func (r *orderRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
	`

	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]domain.OrderItem)
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// Count returns the total number of orders.
func (r *orderRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

// TotalRevenue sums the total amount of all paid orders.
func (r *orderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE payment_status = $1
	`

	var revenue float64
	err := r.db.QueryRowContext(ctx, query, domain.PaymentPaid).Scan(&revenue)
	if err != nil {
		return 0, fmt.Errorf("failed to compute total revenue: %w", err)
	}

	return revenue, nil
}
