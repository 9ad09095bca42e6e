package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"farmconnect/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductFilter describes the optional constraints of a product query.
// Zero-valued fields are skipped when building the WHERE clause.
type ProductFilter struct {
	Status     domain.ProductStatus // empty = any status
	Category   domain.ProductCategory
	NameSearch string // case-insensitive substring match on name
	FarmerID   *uuid.UUID
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]*domain.Product, int, error)
	ListAll(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error
	UpdatePrice(ctx context.Context, id uuid.UUID, price float64) error
	Count(ctx context.Context, filter ProductFilter) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, category, farmer_id,
	images, quantity, unit, status, location_county, location_town,
	created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	product := &domain.Product{}
	var images []byte
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Category,
		&product.FarmerID,
		&images,
		&product.Quantity,
		&product.Unit,
		&product.Status,
		&product.Location.County,
		&product.Location.Town,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to decode product images: %w", err)
	}
	return product, nil
}

// buildWhere turns a ProductFilter into a WHERE clause with
// positional arguments.
func buildWhere(filter ProductFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	add := func(condition string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(condition, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Category != "" && filter.Category != "all" {
		add("category = $%d", filter.Category)
	}
	if filter.NameSearch != "" {
		add("name ILIKE $%d", "%"+filter.NameSearch+"%")
	}
	if filter.FarmerID != nil {
		add("farmer_id = $%d", *filter.FarmerID)
	}

	if len(clauses) == 0 {
		return "", args
	}

	where := "WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode product images: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, price, category, farmer_id,
			images, quantity, unit, status, location_county, location_town,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.FarmerID,
		images,
		product.Quantity,
		product.Unit,
		product.Status,
		product.Location.County,
		product.Location.Town,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves the filtered products sorted by recency, along with
// the total number of matches before pagination.
func (r *productRepository) List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]*domain.Product, int, error) {
	where, args := buildWhere(filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, where, len(args)+1, len(args)+2)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// ListAll retrieves every product matching the filter, sorted by
// recency, without pagination.
func (r *productRepository) ListAll(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	where, args := buildWhere(filter)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC
	`, productColumns, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// UpdateStatus sets the approval status of a product.
func (r *productRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error {
	query := `
		UPDATE products
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdatePrice sets the catalog price of a product. Orders created
// before the change keep their snapshot prices.
func (r *productRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price float64) error {
	query := `
		UPDATE products
		SET price = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, price)
	if err != nil {
		return fmt.Errorf("failed to update product price: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Count returns the number of products matching the filter.
func (r *productRepository) Count(ctx context.Context, filter ProductFilter) (int, error) {
	where, args := buildWhere(filter)

	query := fmt.Sprintf("SELECT COUNT(*) FROM products %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return total, nil
}
