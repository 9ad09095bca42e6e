package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"farmconnect/internal/config"
	custommiddleware "farmconnect/internal/middleware"
	"farmconnect/internal/repository"
	"farmconnect/internal/service"
	"farmconnect/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	router := chi.NewRouter()

	// Basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 120,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit",
	}, logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT.Secret)
	catalogService := service.NewCatalogService(productRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, productRepo)
	adminService := service.NewAdminService(productRepo, userRepo, orderRepo)
	farmerService := service.NewFarmerService(userRepo, productRepo)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	productHandler := transport.NewProductHandler(catalogService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	adminHandler := transport.NewAdminHandler(adminService, logger)
	farmerHandler := transport.NewFarmerHandler(farmerService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware)
	productHandler.RegisterRoutes(router, authMiddleware)
	orderHandler.RegisterRoutes(router, authMiddleware)
	adminHandler.RegisterRoutes(router, authMiddleware)
	farmerHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
