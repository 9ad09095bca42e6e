package transport

import (
	"encoding/json"
	"net/http"

	"farmconnect/internal/domain"
	"farmconnect/internal/middleware"
	"farmconnect/internal/repository"
	"farmconnect/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Role            string `json:"role" validate:"omitempty,oneof=buyer farmer"`
	Phone           string `json:"phone"`
	County          string `json:"county"`
	Town            string `json:"town"`
	FarmName        string `json:"farm_name"`
	FarmDescription string `json:"farm_description"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Role     string          `json:"role"`
	Phone    string          `json:"phone,omitempty"`
	Location domain.Location `json:"location"`
	FarmName string          `json:"farm_name,omitempty"`
}

func profileOf(user *domain.User) UserProfile {
	return UserProfile{
		ID:       user.ID.String(),
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
		Phone:    user.Phone,
		Location: user.Location,
		FarmName: user.FarmName,
	}
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all auth routes
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		// Public routes
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/profile", h.GetProfile)
		})
	})
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Registration validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		Phone:    req.Phone,
		Location: domain.Location{
			County: req.County,
			Town:   req.Town,
		},
		FarmName:        req.FarmName,
		FarmDescription: req.FarmDescription,
	}

	user, err := h.userService.Register(r.Context(), input)
	if err != nil {
		switch err {
		case repository.ErrUserAlreadyExists:
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
		case service.ErrInvalidRole:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Registration failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register user")
		}
		return
	}

	h.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, profileOf(user))
}

// Login handles user authentication
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, refreshToken, user, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	response := LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         profileOf(user),
	}

	h.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// Logout handles user logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Logout decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// RefreshToken handles token refresh
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Refresh token validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newAccessToken, err := h.userService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case service.ErrInvalidToken:
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		case service.ErrTokenExpired:
			middleware.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
		default:
			h.logger.Error("Token refresh failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to refresh token")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RefreshResponse{AccessToken: newAccessToken})
}

// GetProfile handles getting the caller's profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get user profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get user profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profileOf(user))
}
