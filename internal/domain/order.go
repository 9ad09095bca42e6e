package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks fulfilment progress.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus tracks whether an order has been paid for. Only paid
// orders count towards platform revenue.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// OrderItem is one product line within an order. Price is a snapshot
// of the catalog price at order creation time; later catalog edits do
// not change it.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}

// Order is a buyer's purchase. TotalAmount is derived: the sum over
// items of price times quantity, fixed at creation time.
type Order struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	UserID          uuid.UUID     `json:"user_id" db:"user_id"`
	Items           []OrderItem   `json:"items"`
	TotalAmount     float64       `json:"total_amount" db:"total_amount"`
	ShippingAddress string        `json:"shipping_address" db:"shipping_address"`
	CustomerName    string        `json:"customer_name" db:"customer_name"`
	CustomerPhone   string        `json:"customer_phone" db:"customer_phone"`
	PaymentMethod   string        `json:"payment_method" db:"payment_method"`
	Status          OrderStatus   `json:"status" db:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}
