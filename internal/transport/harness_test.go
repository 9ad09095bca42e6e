package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/middleware"
	"farmconnect/internal/repository"
	"farmconnect/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "handler-test-secret"

// In-memory repositories backing the real services under test.

type memProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMemProductRepository() *memProductRepository {
	return &memProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *memProductRepository) Create(ctx context.Context, product *domain.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *memProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *memProductRepository) matching(filter repository.ProductFilter) []*domain.Product {
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
		if filter.NameSearch != "" && !strings.Contains(strings.ToLower(product.Name), strings.ToLower(filter.NameSearch)) {
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

func (m *memProductRepository) List(ctx context.Context, filter repository.ProductFilter, page, pageSize int) ([]*domain.Product, int, error) {
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

func (m *memProductRepository) ListAll(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return m.matching(filter), nil
}

func (m *memProductRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error {
	product, exists := m.products[id]
	if !exists {
		return repository.ErrProductNotFound
	}
	product.Status = status
	return nil
}

func (m *memProductRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price float64) error {
	product, exists := m.products[id]
	if !exists {
		return repository.ErrProductNotFound
	}
	product.Price = price
	return nil
}

func (m *memProductRepository) Count(ctx context.Context, filter repository.ProductFilter) (int, error) {
	return len(m.matching(filter)), nil
}

type memUserRepository struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
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

func (m *memUserRepository) UpdateFarmProfile(ctx context.Context, user *domain.User) error {
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

func (m *memUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func (m *memUserRepository) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	count := 0
	for _, user := range m.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

type memOrderRepository struct {
	orders map[uuid.UUID]*domain.Order
}

func newMemOrderRepository() *memOrderRepository {
	return &memOrderRepository{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *memOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	m.orders[order.ID] = &copied
	return nil
}

func (m *memOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	return &copied, nil
}

func (m *memOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
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

func (m *memOrderRepository) Count(ctx context.Context) (int, error) {
	return len(m.orders), nil
}

func (m *memOrderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	for _, order := range m.orders {
		if order.PaymentStatus == domain.PaymentPaid {
			revenue += order.TotalAmount
		}
	}
	return revenue, nil
}

type memRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMemRefreshTokenRepository() *memRefreshTokenRepository {
	return &memRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *memRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *memRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *memRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

// testEnv wires the real services and handlers onto a chi router with
// the real auth middleware, backed by the in-memory repositories.
type testEnv struct {
	router      chi.Router
	productRepo *memProductRepository
	userRepo    *memUserRepository
	orderRepo   *memOrderRepository
	userService service.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()

	productRepo := newMemProductRepository()
	userRepo := newMemUserRepository()
	orderRepo := newMemOrderRepository()
	tokenRepo := newMemRefreshTokenRepository()

	userService := service.NewUserService(userRepo, tokenRepo, testJWTSecret)
	catalogService := service.NewCatalogService(productRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, productRepo)
	adminService := service.NewAdminService(productRepo, userRepo, orderRepo)
	farmerService := service.NewFarmerService(userRepo, productRepo)

	router := chi.NewRouter()
	authMiddleware := middleware.AuthMiddleware(testJWTSecret, logger)

	NewUserHandler(userService, logger).RegisterRoutes(router, authMiddleware)
	NewProductHandler(catalogService, logger).RegisterRoutes(router, authMiddleware)
	NewOrderHandler(orderService, logger).RegisterRoutes(router, authMiddleware)
	NewAdminHandler(adminService, logger).RegisterRoutes(router, authMiddleware)
	NewFarmerHandler(farmerService, logger).RegisterRoutes(router, authMiddleware)

	return &testEnv{
		router:      router,
		productRepo: productRepo,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		userService: userService,
	}
}

// signup creates an account directly through the user service and
// returns the user plus a bearer token for it. Admin accounts are
// seeded into the repository since registration refuses the role.
func (e *testEnv) signup(t *testing.T, email string, role domain.Role) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()

	if role == domain.RoleAdmin {
		admin := &domain.User{
			ID:       uuid.New(),
			Name:     "Platform Admin",
			Email:    email,
			Role:     domain.RoleAdmin,
			IsActive: true,
		}
		require.NoError(t, e.userRepo.Create(ctx, admin))
		return admin, e.tokenFor(t, admin)
	}

	user, err := e.userService.Register(ctx, service.RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "secret123",
		Role:     role,
		Location: domain.Location{County: "Nakuru", Town: "Naivasha"},
		FarmName: "Test Farm",
	})
	require.NoError(t, err)

	accessToken, _, _, err := e.userService.Login(ctx, email, "secret123")
	require.NoError(t, err)

	return user, accessToken
}

// tokenFor signs an access token for a repository-seeded user with the
// same claims shape the user service produces.
func (e *testEnv) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
		"iat":     time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(out))
}

func errorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var resp middleware.ErrorResponse
	decodeBody(t, recorder, &resp)
	return resp.Error.Message
}
