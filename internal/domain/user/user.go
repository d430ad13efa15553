package user

import (
	"context"
	"errors"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type AddressType string

const (
	AddressHome  AddressType = "home"
	AddressWork  AddressType = "work"
	AddressOther AddressType = "other"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAddressNotFound = errors.New("address not found")
)

// Address is embedded in the user document. When a user has any addresses,
// exactly one of them is the default.
type Address struct {
	ID        string      `json:"id"`
	Type      AddressType `json:"type"`
	Address   string      `json:"address"`
	City      string      `json:"city"`
	Pincode   string      `json:"pincode"`
	IsDefault bool        `json:"is_default"`
}

// User is keyed by the identity provider's subject id. TotalBcoins is a
// cached running balance of the loyalty ledger; every mutation of it is
// co-transactional with the ledger entry that justifies it.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone,omitempty"`
	Role        Role      `json:"role"`
	Addresses   []Address `json:"addresses"`
	TotalBcoins int       `json:"total_bcoins"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultAddress returns the default address, if any.
func (u *User) DefaultAddress() (Address, bool) {
	for _, a := range u.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

// Store is the persistence contract for user profiles.
type Store interface {
	// FindByID returns ErrUserNotFound when no profile exists.
	FindByID(ctx context.Context, id string) (*User, error)
	Insert(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, search string, limit, offset int) ([]*User, int, error)
}
