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

var (
	ErrFarmerNotFound = errors.New("farmer not found")
)

// FarmerDetail is a farmer's public profile with their approved
// listings.
type FarmerDetail struct {
	Farmer   *domain.FarmerProfile `json:"farmer"`
	Products []*domain.Product     `json:"products"`
}

// UpdateFarmProfileInput is the farmer-editable subset of their
// profile.
type UpdateFarmProfileInput struct {
	FarmName        string
	FarmDescription string
	Location        domain.Location
	Phone           string
}

// FarmerService defines the farmer directory business logic.
type FarmerService interface {
	List(ctx context.Context) ([]*domain.FarmerProfile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*FarmerDetail, error)
	UpdateProfile(ctx context.Context, farmerID uuid.UUID, input UpdateFarmProfileInput) (*domain.User, error)
}

type farmerService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
}

// NewFarmerService creates a new instance of FarmerService
func NewFarmerService(userRepo repository.UserRepository, productRepo repository.ProductRepository) FarmerService {
	return &farmerService{
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// profileFromUser projects a farmer user into the public directory
// shape. Rating, sales and verification are derived fields with
// conservative defaults until review data exists.
func profileFromUser(user *domain.User) *domain.FarmerProfile {
	return &domain.FarmerProfile{
		ID:              user.ID,
		Name:            user.Name,
		FarmName:        user.FarmName,
		FarmDescription: user.FarmDescription,
		Location:        user.Location,
		Phone:           user.Phone,
	}
}

// List returns all farmers, sorted by name.
func (s *farmerService) List(ctx context.Context) ([]*domain.FarmerProfile, error) {
	users, err := s.userRepo.ListByRole(ctx, domain.RoleFarmer)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}

	profiles := make([]*domain.FarmerProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, profileFromUser(user))
	}

	return profiles, nil
}

// GetProfile returns a farmer's public profile and approved products.
func (s *farmerService) GetProfile(ctx context.Context, id uuid.UUID) (*FarmerDetail, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, ErrFarmerNotFound
		}
		return nil, fmt.Errorf("failed to load farmer: %w", err)
	}

	if user.Role != domain.RoleFarmer {
		return nil, ErrFarmerNotFound
	}

	filter := repository.ProductFilter{
		Status:   domain.StatusApproved,
		FarmerID: &user.ID,
	}
	products, err := s.productRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmer products: %w", err)
	}

	return &FarmerDetail{
		Farmer:   profileFromUser(user),
		Products: products,
	}, nil
}

// UpdateProfile updates the caller's farm-facing fields.
func (s *farmerService) UpdateProfile(ctx context.Context, farmerID uuid.UUID, input UpdateFarmProfileInput) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, farmerID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, ErrFarmerNotFound
		}
		return nil, fmt.Errorf("failed to load farmer: %w", err)
	}

	user.FarmName = input.FarmName
	user.FarmDescription = input.FarmDescription
	user.Location = input.Location
	user.Phone = input.Phone
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateFarmProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update farm profile: %w", err)
	}

	return user, nil
}
