package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmconnect/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	UpdateFarmProfile(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role domain.Role) (int, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, phone,
	location_county, location_town, farm_name, farm_description,
	is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Phone,
		&user.Location.County,
		&user.Location.Town,
		&user.FarmName,
		&user.FarmDescription,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database using parameterized queries
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, phone,
			location_county, location_town, farm_name, farm_description,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Phone,
		user.Location.County,
		user.Location.Town,
		user.FarmName,
		user.FarmDescription,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByEmail retrieves a user by email using parameterized queries
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

// FindByID retrieves a user by ID using parameterized queries
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// ListByRole retrieves all users with the given role, sorted by name.
func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role = $1 ORDER BY name ASC`, userColumns)

	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateFarmProfile updates the farm-facing fields of a farmer user.
func (r *userRepository) UpdateFarmProfile(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET farm_name = $2, farm_description = $3, location_county = $4,
		    location_town = $5, phone = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.FarmName,
		user.FarmDescription,
		user.Location.County,
		user.Location.Town,
		user.Phone,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update farm profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Count returns the total number of users.
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

// CountByRole returns the number of users with the given role.
func (r *userRepository) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return total, nil
}
