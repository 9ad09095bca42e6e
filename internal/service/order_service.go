package service

import (
	"context"
	"fmt"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"

	"github.com/google/uuid"
)

// ProductNotFoundError identifies which requested product id does not
// exist. The whole order fails; nothing is persisted.
type ProductNotFoundError struct {
	ID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ID)
}

// ProductUnavailableError identifies a referenced product that is not
// currently approved for sale.
type ProductUnavailableError struct {
	Name string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %s is not available", e.Name)
}

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput is the buyer-supplied order data.
type CreateOrderInput struct {
	Lines           []OrderLine
	ShippingAddress string
	CustomerName    string
	CustomerPhone   string
	PaymentMethod   string
}

// OrderService defines the order business logic.
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*domain.Order, error)
	MyOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// Create validates every requested line, computes the order total from
// current catalog prices, and persists the order with per-line price
// snapshots. Validation runs to completion before anything is written;
// a single bad line fails the whole order.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*domain.Order, error) {
	orderID := uuid.New()

	var totalAmount float64
	items := make([]domain.OrderItem, 0, len(input.Lines))

	for _, line := range input.Lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if err == repository.ErrProductNotFound {
				return nil, &ProductNotFoundError{ID: line.ProductID}
			}
			return nil, fmt.Errorf("failed to load product: %w", err)
		}

		if product.Status != domain.StatusApproved {
			return nil, &ProductUnavailableError{Name: product.Name}
		}

		totalAmount += product.Price * float64(line.Quantity)
		items = append(items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price, // snapshot, immune to later edits
		})
	}

	order := &domain.Order{
		ID:              orderID,
		UserID:          userID,
		Items:           items,
		TotalAmount:     totalAmount,
		ShippingAddress: input.ShippingAddress,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		PaymentMethod:   input.PaymentMethod,
		Status:          domain.OrderPending,
		PaymentStatus:   domain.PaymentPending,
		CreatedAt:       time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// MyOrders returns the caller's orders, newest first.
func (s *orderService) MyOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
