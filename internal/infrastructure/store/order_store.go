package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/grocer-backend/internal/domain/bcoin"
	"github.com/example/grocer-backend/internal/domain/catalog"
	"github.com/example/grocer-backend/internal/domain/order"
	"github.com/example/grocer-backend/internal/domain/user"
)

// OrderStore implements order.Store on PostgreSQL.
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Transact runs fn in one transaction. Every mutation of an order placement
// (stock decrements, balance moves, order insert, ledger inserts) commits or
// rolls back together, so a failure partway through never leaves inventory
// short or the ledger out of step with the cached balance.
func (s *OrderStore) Transact(ctx context.Context, fn func(tx order.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&orderTx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return sqlTx.Commit()
}

const orderColumns = `id, user_id, items, status, total_amount, delivery_address,
	phone_number, payment_mode, payment_status, bcoins_used, delivery_fee,
	estimated_delivery, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*order.Order, error) {
	var o order.Order
	var items []byte
	err := row.Scan(&o.ID, &o.UserID, &items, &o.Status, &o.TotalAmount,
		&o.DeliveryAddress, &o.PhoneNumber, &o.PaymentMode, &o.PaymentStatus,
		&o.BcoinsUsed, &o.DeliveryFee, &o.EstimatedDelivery, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items for order %s: %w", o.ID, err)
	}
	return &o, nil
}

func (s *OrderStore) FindByID(ctx context.Context, id string) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, order.ErrOrderNotFound
	}
	return o, err
}

func (s *OrderStore) List(ctx context.Context, f order.ListFilter) ([]*order.Order, int, error) {
	where := `WHERE TRUE`
	args := []any{}
	n := 0
	if f.UserID != "" {
		n++
		where += fmt.Sprintf(` AND user_id = $%d`, n)
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		n++
		where += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, f.Status)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, n+1, n+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// UpdateStatus writes the transition conditionally on the status it was
// validated against, so two admins racing on the same order cannot both win.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, from, to order.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the order vanished or its status moved under us.
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return order.ErrOrderNotFound
		}
		return order.ErrStatusConflict
	}
	return nil
}

// orderTx implements order.Tx on a live *sql.Tx.
type orderTx struct {
	tx *sql.Tx
}

func (t *orderTx) FindActiveProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND is_active`, productID)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, catalog.ErrProductNotFound
	}
	return p, err
}

// DecrementStock is the commit-time stock guard: a single conditional atomic
// update, never a read-then-write pair. No match means the stock would have
// gone negative.
func (t *orderTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now()
		 WHERE id = $1 AND stock >= $2`,
		productID, quantity)
	if err != nil {
		return err
	}
	return oneRowOr(res, catalog.ErrInsufficientStock)
}

func (t *orderTx) DebitBcoins(ctx context.Context, userID string, amount int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE users SET total_bcoins = total_bcoins - $2, updated_at = now()
		 WHERE id = $1 AND total_bcoins >= $2`,
		userID, amount)
	if err != nil {
		return err
	}
	return oneRowOr(res, bcoin.ErrInsufficientBalance)
}

func (t *orderTx) CreditBcoins(ctx context.Context, userID string, amount int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE users SET total_bcoins = total_bcoins + $2, updated_at = now() WHERE id = $1`,
		userID, amount)
	if err != nil {
		return err
	}
	return oneRowOr(res, user.ErrUserNotFound)
}

func (t *orderTx) InsertOrder(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.UserID, items, o.Status, o.TotalAmount, o.DeliveryAddress,
		o.PhoneNumber, o.PaymentMode, o.PaymentStatus, o.BcoinsUsed, o.DeliveryFee,
		o.EstimatedDelivery, o.CreatedAt, o.UpdatedAt)
	return err
}

func (t *orderTx) InsertLedgerEntry(ctx context.Context, e *bcoin.Entry) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO bcoin_ledger (id, user_id, order_id, amount_spent, bcoins,
		 transaction_type, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.UserID, e.OrderID, e.AmountSpent, e.Bcoins, e.TransactionType,
		e.Description, e.CreatedAt)
	return err
}
