package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"

	"github.com/google/uuid"
)

const (
	// DefaultPageSize is the public catalog page size.
	DefaultPageSize = 12
	// FeaturedPageSize is the fixed size of the featured listing.
	FeaturedPageSize = 8
	// MaxPageSize caps caller-supplied page sizes.
	MaxPageSize = 100

	// DefaultProductImage is attached to listings created without images.
	DefaultProductImage = "/images/default-product.jpg"
	// DefaultUnit labels quantities when the farmer gives none.
	DefaultUnit = "piece"
)

var (
	ErrInvalidCategory = errors.New("invalid product category")
	ErrInvalidPrice    = errors.New("price must be a positive number")
)

// ListQuery holds the public catalog query parameters, already coerced
// to integers by the transport layer.
type ListQuery struct {
	Category domain.ProductCategory
	Search   string
	Page     int
	Limit    int
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products    []*domain.Product `json:"products"`
	Total       int               `json:"total"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
}

// CreateProductInput is the farmer-supplied listing data. Status is
// deliberately absent: every new listing starts as pending.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    domain.ProductCategory
	Quantity    int
	Unit        string
	Images      []string
}

// CatalogService defines the product listing business logic.
type CatalogService interface {
	ListPublic(ctx context.Context, q ListQuery) (*ProductPage, error)
	Featured(ctx context.Context) ([]*domain.Product, error)
	Create(ctx context.Context, farmerID uuid.UUID, input CreateProductInput) (*domain.Product, error)
	MyProducts(ctx context.Context, farmerID uuid.UUID) ([]*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, userRepo repository.UserRepository) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// clampPage normalizes caller-supplied pagination values.
func clampPage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// totalPages computes ceil(total / pageSize).
func totalPages(total, pageSize int) int {
	return (total + pageSize - 1) / pageSize
}

// ListPublic returns one page of the public catalog. The status filter
// is hard-set to approved; caller-supplied status values are ignored.
func (s *catalogService) ListPublic(ctx context.Context, q ListQuery) (*ProductPage, error) {
	page, limit := clampPage(q.Page, q.Limit, DefaultPageSize)

	filter := repository.ProductFilter{
		Status:     domain.StatusApproved,
		Category:   q.Category,
		NameSearch: q.Search,
	}

	products, total, err := s.productRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}

	return &ProductPage{
		Products:    products,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages(total, limit),
	}, nil
}

// Featured returns the most recent approved products, fixed page size,
// no filters.
func (s *catalogService) Featured(ctx context.Context) ([]*domain.Product, error) {
	filter := repository.ProductFilter{Status: domain.StatusApproved}

	products, _, err := s.productRepo.List(ctx, filter, 1, FeaturedPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}

	return products, nil
}

// Create adds a new listing for the farmer. The listing always starts
// pending and snapshots the farmer's location.
func (s *catalogService) Create(ctx context.Context, farmerID uuid.UUID, input CreateProductInput) (*domain.Product, error) {
	if !domain.ValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}
	if input.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	farmer, err := s.userRepo.FindByID(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load farmer: %w", err)
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	unit := input.Unit
	if unit == "" {
		unit = DefaultUnit
	}
	images := input.Images
	if len(images) == 0 {
		images = []string{DefaultProductImage}
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		FarmerID:    farmer.ID,
		Images:      images,
		Quantity:    quantity,
		Unit:        unit,
		Status:      domain.StatusPending,
		Location:    farmer.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// MyProducts returns all of the farmer's own listings regardless of
// approval status.
func (s *catalogService) MyProducts(ctx context.Context, farmerID uuid.UUID) ([]*domain.Product, error) {
	filter := repository.ProductFilter{FarmerID: &farmerID}

	products, err := s.productRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmer products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product.
func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return product, nil
}
