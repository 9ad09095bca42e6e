package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory is the fixed set of marketplace categories.
type ProductCategory string

const (
	CategoryLivestock  ProductCategory = "livestock"
	CategoryPoultry    ProductCategory = "poultry"
	CategoryVegetables ProductCategory = "vegetables"
	CategoryFruits     ProductCategory = "fruits"
	CategoryDairy      ProductCategory = "dairy"
	CategoryOther      ProductCategory = "other"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c ProductCategory) bool {
	switch c {
	case CategoryLivestock, CategoryPoultry, CategoryVegetables,
		CategoryFruits, CategoryDairy, CategoryOther:
		return true
	}
	return false
}

// ProductStatus is the approval lifecycle field on a product.
// Every product starts as pending; only an admin moves it to approved
// or rejected, and only approved products are publicly visible.
type ProductStatus string

const (
	StatusPending  ProductStatus = "pending"
	StatusApproved ProductStatus = "approved"
	StatusRejected ProductStatus = "rejected"
)

// ValidTransitionStatus reports whether s is a legal target for an
// admin status transition. Pending is the initial state only.
func ValidTransitionStatus(s ProductStatus) bool {
	return s == StatusApproved || s == StatusRejected
}

// Product represents a farmer's listing in the catalog.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       float64         `json:"price" db:"price"`
	Category    ProductCategory `json:"category" db:"category"`
	FarmerID    uuid.UUID       `json:"farmer_id" db:"farmer_id"`
	Images      []string        `json:"images" db:"images"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Unit        string          `json:"unit" db:"unit"`
	Status      ProductStatus   `json:"status" db:"status"`
	Location    Location        `json:"location"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
