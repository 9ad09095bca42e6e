package service

import (
	"context"
	"sort"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"

	"github.com/google/uuid"
)

// In-memory repositories for testing

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) matching(filter repository.ProductFilter) []*domain.Product {
	matched := []*domain.Product{}
	for _, product := range m.products {
		if filter.Status != "" && product.Status != filter.Status {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && product.Category != filter.Category {
			continue
		}
		if filter.FarmerID != nil && product.FarmerID != *filter.FarmerID {
			continue
		}
		if filter.NameSearch != "" && !containsFold(product.Name, filter.NameSearch) {
			continue
		}
		copied := *product
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter, page, pageSize int) ([]*domain.Product, int, error) {
	matched := m.matching(filter)
	total := len(matched)

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (m *mockProductRepository) ListAll(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return m.matching(filter), nil
}

func (m *mockProductRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error {
	product, exists := m.products[id]
	if !exists {
		return repository.ErrProductNotFound
	}
	product.Status = status
	return nil
}

func (m *mockProductRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price float64) error {
	product, exists := m.products[id]
	if !exists {
		return repository.ErrProductNotFound
	}
	product.Price = price
	return nil
}

func (m *mockProductRepository) Count(ctx context.Context, filter repository.ProductFilter) (int, error) {
	return len(m.matching(filter)), nil
}

func containsFold(s, substr string) bool {
	lower := func(r byte) byte {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		match := true
		for j := 0; j < len(substr); j++ {
			if lower(s[i+j]) != lower(substr[j]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

type mockUserRepository struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[uuid.UUID]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	users := []*domain.User{}
	for _, user := range m.users {
		if user.Role == role {
			copied := *user
			users = append(users, &copied)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (m *mockUserRepository) UpdateFarmProfile(ctx context.Context, user *domain.User) error {
	stored, exists := m.users[user.ID]
	if !exists {
		return repository.ErrUserNotFound
	}
	stored.FarmName = user.FarmName
	stored.FarmDescription = user.FarmDescription
	stored.Location = user.Location
	stored.Phone = user.Phone
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockUserRepository) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	count := 0
	for _, user := range m.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

type mockOrderRepository struct {
	orders map[uuid.UUID]*domain.Order
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders: make(map[uuid.UUID]*domain.Order),
	}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	return &copied, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for _, order := range m.orders {
		if order.UserID == userID {
			copied := *order
			copied.Items = append([]domain.OrderItem(nil), order.Items...)
			orders = append(orders, &copied)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *mockOrderRepository) Count(ctx context.Context) (int, error) {
	return len(m.orders), nil
}

func (m *mockOrderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	for _, order := range m.orders {
		if order.PaymentStatus == domain.PaymentPaid {
			revenue += order.TotalAmount
		}
	}
	return revenue, nil
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}
