package transport

import (
	"net/http"

	"farmconnect/internal/auth"
	"farmconnect/internal/domain"
	"farmconnect/internal/middleware"
	"farmconnect/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpdateFarmProfileRequest is the farmer profile update payload.
type UpdateFarmProfileRequest struct {
	FarmName        string `json:"farm_name" validate:"required"`
	FarmDescription string `json:"farm_description"`
	County          string `json:"county"`
	Town            string `json:"town"`
	Phone           string `json:"phone"`
}

// FarmerHandler handles HTTP requests for the farmer directory
type FarmerHandler struct {
	farmerService service.FarmerService
	logger        *zap.Logger
}

// NewFarmerHandler creates a new FarmerHandler
func NewFarmerHandler(farmerService service.FarmerService, logger *zap.Logger) *FarmerHandler {
	return &FarmerHandler{
		farmerService: farmerService,
		logger:        logger,
	}
}

// RegisterRoutes registers all farmer routes
func (h *FarmerHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/farmers", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.With(middleware.RequirePermission(auth.PermFarmProfileWrite, h.logger)).
				Put("/profile", h.UpdateProfile)
		})

		r.Get("/{id}", h.GetProfile)
	})
}

// List handles the public farmer directory
func (h *FarmerHandler) List(w http.ResponseWriter, r *http.Request) {
	farmers, err := h.farmerService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list farmers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list farmers")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, farmers)
}

// GetProfile handles a single farmer profile with approved products
func (h *FarmerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid farmer id")
		return
	}

	detail, err := h.farmerService.GetProfile(r.Context(), id)
	if err != nil {
		if err == service.ErrFarmerNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "farmer not found")
			return
		}
		h.logger.Error("Failed to get farmer profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get farmer profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

// UpdateProfile handles farm profile edits by the owning farmer
func (h *FarmerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateFarmProfileRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Farm profile validation failed", zap.Error(err))

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

	input := service.UpdateFarmProfileInput{
		FarmName:        req.FarmName,
		FarmDescription: req.FarmDescription,
		Location: domain.Location{
			County: req.County,
			Town:   req.Town,
		},
		Phone: req.Phone,
	}

	user, err := h.farmerService.UpdateProfile(r.Context(), farmerID, input)
	if err != nil {
		if err == service.ErrFarmerNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "farmer not found")
			return
		}
		h.logger.Error("Failed to update farm profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update farm profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}
