package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Till store.
var Migrations = migrate.NewGroup("till")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_till_items",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS till_items (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL DEFAULT '',
    price        BIGINT NOT NULL DEFAULT 0,
    currency     TEXT NOT NULL DEFAULT 'usd',
    quantity     INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    tax_rate_bps BIGINT NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_till_items_name ON till_items (name);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS till_items`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_till_customers",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS till_customers (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL DEFAULT '',
    phone        TEXT NOT NULL DEFAULT '',
    credit_limit BIGINT NOT NULL DEFAULT 0,
    credit_used  BIGINT NOT NULL DEFAULT 0 CHECK (credit_used <= credit_limit),
    currency     TEXT NOT NULL DEFAULT 'usd',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_till_customers_phone ON till_customers (phone);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS till_customers`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_till_cart_lines",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS till_cart_lines (
    item_id      TEXT PRIMARY KEY,
    id           TEXT NOT NULL,
    name         TEXT NOT NULL DEFAULT '',
    price        BIGINT NOT NULL DEFAULT 0,
    currency     TEXT NOT NULL DEFAULT 'usd',
    quantity     INT NOT NULL DEFAULT 0 CHECK (quantity >= 1),
    tax_rate_bps BIGINT NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS till_cart_lines`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_till_transactions",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS till_transactions (
    id          TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL DEFAULT '',
    lines       JSONB NOT NULL DEFAULT '[]',
    subtotal    BIGINT NOT NULL DEFAULT 0,
    tax         BIGINT NOT NULL DEFAULT 0,
    total       BIGINT NOT NULL DEFAULT 0,
    currency    TEXT NOT NULL DEFAULT 'usd',
    mode        TEXT NOT NULL DEFAULT 'paid',
    date        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_till_txns_customer ON till_transactions (customer_id);
CREATE INDEX IF NOT EXISTS idx_till_txns_mode ON till_transactions (mode);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS till_transactions`)
				return err
			},
		},
	)
}
