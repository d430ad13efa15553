package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		original_price   BIGINT NOT NULL,
		discounted_price BIGINT NOT NULL,
		category         TEXT NOT NULL DEFAULT '',
		image_url        TEXT NOT NULL DEFAULT '',
		stock            INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		is_open          BOOLEAN NOT NULL DEFAULT FALSE,
		unit             TEXT NOT NULL DEFAULT 'piece',
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		email        TEXT NOT NULL,
		name         TEXT NOT NULL,
		phone        TEXT NOT NULL DEFAULT '',
		role         TEXT NOT NULL DEFAULT 'user',
		addresses    JSONB NOT NULL DEFAULT '[]',
		total_bcoins BIGINT NOT NULL DEFAULT 0 CHECK (total_bcoins >= 0),
		is_active    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL,
		items              JSONB NOT NULL,
		status             TEXT NOT NULL DEFAULT 'pending',
		total_amount       BIGINT NOT NULL,
		delivery_address   TEXT NOT NULL DEFAULT '',
		phone_number       TEXT NOT NULL DEFAULT '',
		payment_mode       TEXT NOT NULL DEFAULT 'cash_on_delivery',
		payment_status     TEXT NOT NULL DEFAULT 'pending',
		bcoins_used        BIGINT NOT NULL DEFAULT 0,
		delivery_fee       BIGINT NOT NULL DEFAULT 0,
		estimated_delivery TIMESTAMPTZ,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS bcoin_ledger (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		order_id         TEXT NOT NULL,
		amount_spent     BIGINT NOT NULL,
		bcoins           BIGINT NOT NULL,
		transaction_type TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bcoin_ledger_user_id ON bcoin_ledger (user_id, created_at DESC)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
