package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role determines what a user is allowed to do on the platform.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleFarmer Role = "farmer"
	RoleAdmin  Role = "admin"
)

// Location is a coarse county/town pair. Products carry a copy taken
// from the farmer at creation time.
type Location struct {
	County string `json:"county" db:"location_county"`
	Town   string `json:"town" db:"location_town"`
}

// User represents a registered account (buyer, farmer or admin).
// The farm fields are only meaningful when Role is farmer.
type User struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	Role            Role      `json:"role" db:"role"`
	Phone           string    `json:"phone" db:"phone"`
	Location        Location  `json:"location"`
	FarmName        string    `json:"farm_name,omitempty" db:"farm_name"`
	FarmDescription string    `json:"farm_description,omitempty" db:"farm_description"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// FarmerProfile is a read-only projection of a farmer user for the
// public directory. Rating, TotalSales and IsVerified are derived
// fields, not independently authoritative.
type FarmerProfile struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	FarmName        string    `json:"farm_name"`
	FarmDescription string    `json:"farm_description"`
	Location        Location  `json:"location"`
	Phone           string    `json:"phone"`
	Rating          float64   `json:"rating"`
	TotalSales      int       `json:"total_sales"`
	IsVerified      bool      `json:"is_verified"`
}

// RefreshToken is a persisted long-lived credential used to mint new
// access tokens.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}
