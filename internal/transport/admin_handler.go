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

// UpdateStatusRequest is the moderation decision payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminHandler handles HTTP requests for moderation and statistics
type AdminHandler struct {
	adminService service.AdminService
	logger       *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers all admin routes
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequirePermission(auth.PermProductModerate, h.logger))

		r.Get("/pending-products", h.PendingProducts)
		r.Patch("/products/{id}/status", h.UpdateProductStatus)
		r.With(middleware.RequirePermission(auth.PermPlatformStats, h.logger)).
			Get("/stats", h.Stats)
	})
}

// PendingProducts handles the paginated moderation queue
func (h *AdminHandler) PendingProducts(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r, service.AdminPendingPageSize)

	result, err := h.adminService.PendingProducts(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("Failed to list pending products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list pending products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// UpdateProductStatus handles approval decisions
func (h *AdminHandler) UpdateProductStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Status update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.adminService.UpdateProductStatus(r.Context(), id, domain.ProductStatus(req.Status))
	if err != nil {
		switch err {
		case service.ErrInvalidStatus:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrProductNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		default:
			h.logger.Error("Failed to update product status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product status")
		}
		return
	}

	h.logger.Info("Product status updated",
		zap.String("product_id", product.ID.String()),
		zap.String("status", string(product.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Stats handles the platform aggregate counts
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute stats", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}
