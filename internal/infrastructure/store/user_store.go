package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/grocer-backend/internal/domain/user"
)

// UserStore implements user.Store on PostgreSQL. Addresses are embedded as a
// JSONB column: the user document owns them outright.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, name, phone, role, addresses, total_bcoins,
	is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*user.User, error) {
	var u user.User
	var addresses []byte
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.Role, &addresses,
		&u.TotalBcoins, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addresses, &u.Addresses); err != nil {
		return nil, fmt.Errorf("decode addresses for user %s: %w", u.ID, err)
	}
	return &u, nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	return u, err
}

func (s *UserStore) Insert(ctx context.Context, u *user.User) error {
	addresses, err := json.Marshal(u.Addresses)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Email, u.Name, u.Phone, u.Role, addresses, u.TotalBcoins,
		u.IsActive, u.CreatedAt, u.UpdatedAt)
	return err
}

// Update persists profile fields and addresses. The cached bcoin balance is
// deliberately not written here: it only moves inside the order transaction.
func (s *UserStore) Update(ctx context.Context, u *user.User) error {
	addresses, err := json.Marshal(u.Addresses)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET email = $2, name = $3, phone = $4, role = $5,
		 addresses = $6, updated_at = $7 WHERE id = $1`,
		u.ID, u.Email, u.Name, u.Phone, u.Role, addresses, u.UpdatedAt)
	if err != nil {
		return err
	}
	return oneRowOr(res, user.ErrUserNotFound)
}

func (s *UserStore) List(ctx context.Context, search string, limit, offset int) ([]*user.User, int, error) {
	where := ``
	args := []any{}
	if search != "" {
		where = `WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
