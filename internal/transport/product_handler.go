package transport

import (
	"net/http"

	"farmconnect/internal/auth"
	"farmconnect/internal/domain"
	"farmconnect/internal/middleware"
	"farmconnect/internal/repository"
	"farmconnect/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the farmer listing payload. Any
// client-supplied status is ignored; listings always start pending.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category" validate:"required"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	Unit        string   `json:"unit"`
	Images      []string `json:"images"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/featured", h.Featured)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.With(middleware.RequirePermission(auth.PermProductCreate, h.logger)).
				Post("/", h.Create)
			r.With(middleware.RequirePermission(auth.PermProductCreate, h.logger)).
				Get("/my-products", h.MyProducts)
		})

		r.Get("/{id}", h.GetByID)
	})
}

// List handles the public catalog listing with filtering and pagination
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r, service.DefaultPageSize)

	query := service.ListQuery{
		Category: domain.ProductCategory(r.URL.Query().Get("category")),
		Search:   r.URL.Query().Get("search"),
		Page:     page,
		Limit:    limit,
	}

	result, err := h.catalogService.ListPublic(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Featured handles the fixed-size featured listing
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.Featured(r.Context())
	if err != nil {
		h.logger.Error("Failed to list featured products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list featured products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Create handles new product listings from farmers
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	farmerID, ok := callerID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	input := service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    domain.ProductCategory(req.Category),
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Images:      req.Images,
	}

	product, err := h.catalogService.Create(r.Context(), farmerID, input)
	if err != nil {
		switch err {
		case service.ErrInvalidCategory, service.ErrInvalidPrice:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("farmer_id", farmerID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// MyProducts handles the farmer's own listing view, all statuses
func (h *ProductHandler) MyProducts(w http.ResponseWriter, r *http.Request) {
	farmerID, ok := callerID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	products, err := h.catalogService.MyProducts(r.Context(), farmerID)
	if err != nil {
		h.logger.Error("Failed to list farmer products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID handles single product lookup
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalogService.GetByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// callerID extracts and parses the authenticated user's ID.
func callerID(r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
