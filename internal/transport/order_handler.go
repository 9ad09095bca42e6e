package transport

import (
	"errors"
	"net/http"

	"farmconnect/internal/auth"
	"farmconnect/internal/middleware"
	"farmconnect/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderLineRequest is one requested product line.
type OrderLineRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest represents the order payload
type CreateOrderRequest struct {
	Products        []OrderLineRequest `json:"products" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shippingAddress" validate:"required"`
	CustomerName    string             `json:"customerName" validate:"required"`
	CustomerPhone   string             `json:"customerPhone" validate:"required"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.With(middleware.RequirePermission(auth.PermOrderCreate, h.logger)).
			Post("/", h.Create)
		r.With(middleware.RequirePermission(auth.PermOrderReadOwn, h.logger)).
			Get("/my-orders", h.MyOrders)
	})
}

// Create handles order creation with validate-then-commit semantics
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, ok := callerID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Products))
	for _, p := range req.Products {
		productID, err := uuid.Parse(p.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		lines = append(lines, service.OrderLine{
			ProductID: productID,
			Quantity:  p.Quantity,
		})
	}

	input := service.CreateOrderInput{
		Lines:           lines,
		ShippingAddress: req.ShippingAddress,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		PaymentMethod:   req.PaymentMethod,
	}

	order, err := h.orderService.Create(r.Context(), userID, input)
	if err != nil {
		var notFound *service.ProductNotFoundError
		var unavailable *service.ProductUnavailableError

		switch {
		case errors.As(err, &notFound):
			middleware.RespondWithError(w, http.StatusNotFound, notFound.Error())
		case errors.As(err, &unavailable):
			middleware.RespondWithError(w, http.StatusBadRequest, unavailable.Error())
		default:
			h.logger.Error("Failed to create order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		}
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("total_amount", order.TotalAmount),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// MyOrders handles the caller's order history
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orderService.MyOrders(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}
