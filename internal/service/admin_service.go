package service

import (
	"context"
	"errors"
	"fmt"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"

	"github.com/google/uuid"
)

// AdminPendingPageSize is the default page size for the moderation queue.
const AdminPendingPageSize = 10

var (
	// ErrInvalidStatus is returned when a transition target is neither
	// approved nor rejected. The product is left unchanged.
	ErrInvalidStatus = errors.New("status must be approved or rejected")
)

// PlatformStats are point-in-time aggregate counts, recomputed on
// every call.
type PlatformStats struct {
	TotalUsers      int     `json:"totalUsers"`
	TotalFarmers    int     `json:"totalFarmers"`
	TotalProducts   int     `json:"totalProducts"`
	PendingProducts int     `json:"pendingProducts"`
	TotalOrders     int     `json:"totalOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// AdminService defines the moderation and aggregation business logic.
type AdminService interface {
	UpdateProductStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) (*domain.Product, error)
	PendingProducts(ctx context.Context, page, limit int) (*ProductPage, error)
	Stats(ctx context.Context) (*PlatformStats, error)
}

type adminService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
) AdminService {
	return &adminService{
		productRepo: productRepo,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
	}
}

// UpdateProductStatus transitions a product to approved or rejected.
// Any other target status fails without touching the product.
func (s *adminService) UpdateProductStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) (*domain.Product, error) {
	if !domain.ValidTransitionStatus(status) {
		return nil, ErrInvalidStatus
	}

	if err := s.productRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}

	return product, nil
}

// PendingProducts returns one page of the moderation queue.
func (s *adminService) PendingProducts(ctx context.Context, page, limit int) (*ProductPage, error) {
	page, limit = clampPage(page, limit, AdminPendingPageSize)

	filter := repository.ProductFilter{Status: domain.StatusPending}

	products, total, err := s.productRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending products: %w", err)
	}

	return &ProductPage{
		Products:    products,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages(total, limit),
	}, nil
}

// Stats recomputes the platform-wide aggregates. Revenue counts only
// paid orders.
func (s *adminService) Stats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}
	var err error

	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.TotalFarmers, err = s.userRepo.CountByRole(ctx, domain.RoleFarmer); err != nil {
		return nil, fmt.Errorf("failed to count farmers: %w", err)
	}
	if stats.TotalProducts, err = s.productRepo.Count(ctx, repository.ProductFilter{}); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if stats.PendingProducts, err = s.productRepo.Count(ctx, repository.ProductFilter{Status: domain.StatusPending}); err != nil {
		return nil, fmt.Errorf("failed to count pending products: %w", err)
	}
	if stats.TotalOrders, err = s.orderRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if stats.TotalRevenue, err = s.orderRepo.TotalRevenue(ctx); err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}

	return stats, nil
}
