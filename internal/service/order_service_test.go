package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"farmconnect/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderFixture() (*mockOrderRepository, *mockProductRepository, OrderService) {
	orderRepo := newMockOrderRepository()
	productRepo := newMockProductRepository()
	return orderRepo, productRepo, NewOrderService(orderRepo, productRepo)
}

func approvedProduct(t *testing.T, repo *mockProductRepository, name string, price float64) *domain.Product {
	t.Helper()
	return seedProduct(t, repo, uuid.New(), name, price, domain.StatusApproved, time.Now())
}

func TestOrderCreate_TotalIsSumOfLines(t *testing.T) {
	_, productRepo, svc := orderFixture()
	ctx := context.Background()

	kale := approvedProduct(t, productRepo, "Kale", 50)
	eggs := approvedProduct(t, productRepo, "Eggs", 15)

	order, err := svc.Create(ctx, uuid.New(), CreateOrderInput{
		Lines: []OrderLine{
			{ProductID: kale.ID, Quantity: 2},
			{ProductID: eggs.ID, Quantity: 3},
		},
		ShippingAddress: "12 Market Rd",
		CustomerName:    "Amina",
		CustomerPhone:   "0700000000",
		PaymentMethod:   "mpesa",
	})
	require.NoError(t, err)

	assert.Equal(t, 2*50.0+3*15.0, order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 50.0, order.Items[0].Price)
	assert.Equal(t, 15.0, order.Items[1].Price)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
}

func TestOrderCreate_PriceIsSnapshot(t *testing.T) {
	orderRepo, productRepo, svc := orderFixture()
	ctx := context.Background()

	kale := approvedProduct(t, productRepo, "Kale", 50)

	order, err := svc.Create(ctx, uuid.New(), CreateOrderInput{
		Lines: []OrderLine{{ProductID: kale.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	// Later catalog price edits must not touch the stored order.
	require.NoError(t, productRepo.UpdatePrice(ctx, kale.ID, 500))

	stored, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, stored.TotalAmount)
	assert.Equal(t, 50.0, stored.Items[0].Price)
}

func TestOrderCreate_UnknownProductFailsWhole(t *testing.T) {
	orderRepo, productRepo, svc := orderFixture()
	ctx := context.Background()

	kale := approvedProduct(t, productRepo, "Kale", 50)
	missing := uuid.New()

	_, err := svc.Create(ctx, uuid.New(), CreateOrderInput{
		Lines: []OrderLine{
			{ProductID: kale.ID, Quantity: 1},
			{ProductID: missing, Quantity: 1},
		},
	})

	var notFound *ProductNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, missing, notFound.ID)

	count, _ := orderRepo.Count(ctx)
	assert.Zero(t, count, "no order may be persisted when a line fails")
}

func TestOrderCreate_UnapprovedProductFailsWhole(t *testing.T) {
	for _, status := range []domain.ProductStatus{domain.StatusPending, domain.StatusRejected} {
		orderRepo, productRepo, svc := orderFixture()
		ctx := context.Background()

		product := seedProduct(t, productRepo, uuid.New(), "Hidden Crop", 50, status, time.Now())

		_, err := svc.Create(ctx, uuid.New(), CreateOrderInput{
			Lines: []OrderLine{{ProductID: product.ID, Quantity: 1}},
		})

		var unavailable *ProductUnavailableError
		require.True(t, errors.As(err, &unavailable), "status %s must be rejected", status)
		assert.Equal(t, "Hidden Crop", unavailable.Name)

		count, _ := orderRepo.Count(ctx)
		assert.Zero(t, count)
	}
}

func TestMyOrders_OwnOnlyNewestFirst(t *testing.T) {
	orderRepo, productRepo, svc := orderFixture()
	ctx := context.Background()

	kale := approvedProduct(t, productRepo, "Kale", 10)
	buyer := uuid.New()
	other := uuid.New()

	first, err := svc.Create(ctx, buyer, CreateOrderInput{Lines: []OrderLine{{ProductID: kale.ID, Quantity: 1}}})
	require.NoError(t, err)
	// Force distinct creation times for a stable order.
	stored, _ := orderRepo.FindByID(ctx, first.ID)
	stored.CreatedAt = stored.CreatedAt.Add(-time.Minute)
	orderRepo.orders[first.ID] = stored

	second, err := svc.Create(ctx, buyer, CreateOrderInput{Lines: []OrderLine{{ProductID: kale.ID, Quantity: 2}}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other, CreateOrderInput{Lines: []OrderLine{{ProductID: kale.ID, Quantity: 3}}})
	require.NoError(t, err)

	orders, err := svc.MyOrders(ctx, buyer)
	require.NoError(t, err)

	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

// Property: for any mix of approved products and quantities, the order
// total equals the sum of line price times quantity.
func TestProperty_OrderTotalMatchesLines(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("totalAmount = sum(price * quantity)", prop.ForAll(
		func(prices []float64, quantities []int) bool {
			if len(prices) == 0 {
				return true
			}
			if len(quantities) < len(prices) {
				return true
			}

			_, productRepo, svc := orderFixture()
			ctx := context.Background()

			var expected float64
			lines := make([]OrderLine, 0, len(prices))
			for i, price := range prices {
				product := seedProduct(t, productRepo, uuid.New(), "Crop", price, domain.StatusApproved, time.Now())
				lines = append(lines, OrderLine{ProductID: product.ID, Quantity: quantities[i]})
				expected += price * float64(quantities[i])
			}

			order, err := svc.Create(ctx, uuid.New(), CreateOrderInput{Lines: lines})
			if err != nil {
				return false
			}

			return math.Abs(order.TotalAmount-expected) < 1e-9
		},
		gen.SliceOf(gen.Float64Range(0.5, 1000)),
		gen.SliceOfN(20, gen.IntRange(1, 50)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
