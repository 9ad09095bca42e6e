package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farmconnect/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service wraps the database handle and exposes health information.
type Service struct {
	db *sql.DB
}

// New opens a PostgreSQL connection pool from the given configuration.
func New(cfg config.DatabaseConfig) (*Service, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.Schema,
	)

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Service{db: db}, nil
}

// DB returns the underlying sql.DB handle.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health pings the database and reports pool statistics.
func (s *Service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	dbStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)

	return stats
}

// Close closes the connection pool.
func (s *Service) Close() error {
	return s.db.Close()
}
