package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Identity is the verified caller identity supplied by the identity provider.
type Identity struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// EnsureProfile returns the caller's profile, creating it from the identity
// claims on first authenticated request.
func (s *Service) EnsureProfile(ctx context.Context, id Identity) (*User, error) {
	u, err := s.store.FindByID(ctx, id.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	role := id.Role
	if role != RoleAdmin {
		role = RoleUser
	}
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = id.Email
		if at := strings.Index(name, "@"); at > 0 {
			name = name[:at]
		}
	}

	now := time.Now()
	u = &User{
		ID:        id.ID,
		Email:     strings.ToLower(strings.TrimSpace(id.Email)),
		Name:      name,
		Role:      role,
		Addresses: []Address{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID, name, phone string) (*User, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Name = strings.TrimSpace(name)
	u.Phone = strings.TrimSpace(phone)
	u.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// AddressInput carries caller-supplied address fields.
type AddressInput struct {
	Type      AddressType `json:"type"`
	Address   string      `json:"address"`
	City      string      `json:"city"`
	Pincode   string      `json:"pincode"`
	IsDefault bool        `json:"is_default"`
}

func (s *Service) AddAddress(ctx context.Context, userID string, in AddressInput) ([]Address, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Type == "" {
		in.Type = AddressHome
	}
	// The first address is always the default.
	isDefault := in.IsDefault || len(u.Addresses) == 0
	if isDefault {
		clearDefault(u.Addresses)
	}

	u.Addresses = append(u.Addresses, Address{
		ID:        uuid.New().String(),
		Type:      in.Type,
		Address:   in.Address,
		City:      in.City,
		Pincode:   in.Pincode,
		IsDefault: isDefault,
	})
	u.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, in AddressInput) ([]Address, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, a := range u.Addresses {
		if a.ID == addressID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrAddressNotFound
	}

	if in.IsDefault {
		clearDefault(u.Addresses)
	}
	u.Addresses[idx] = Address{
		ID:        addressID,
		Type:      in.Type,
		Address:   in.Address,
		City:      in.City,
		Pincode:   in.Pincode,
		IsDefault: in.IsDefault,
	}
	ensureDefault(u.Addresses)
	u.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) ([]Address, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := u.Addresses[:0]
	found := false
	for _, a := range u.Addresses {
		if a.ID == addressID {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return nil, ErrAddressNotFound
	}
	u.Addresses = kept
	ensureDefault(u.Addresses)
	u.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	return s.store.FindByID(ctx, userID)
}

func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*User, int, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.List(ctx, search, limit, offset)
}

func clearDefault(addresses []Address) {
	for i := range addresses {
		addresses[i].IsDefault = false
	}
}

// ensureDefault restores the single-default invariant after a mutation:
// if the list is non-empty and nothing is marked default, promote the first.
func ensureDefault(addresses []Address) {
	if len(addresses) == 0 {
		return
	}
	for _, a := range addresses {
		if a.IsDefault {
			return
		}
	}
	addresses[0].IsDefault = true
}
