package database

import (
	"context"
	"fmt"
)

// schema is kept to column types every supported dialect accepts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          VARCHAR(64)   PRIMARY KEY,
		name        VARCHAR(255)  NOT NULL,
		description TEXT,
		category    VARCHAR(128)  NOT NULL,
		price       DECIMAL(12,2) NOT NULL,
		currency    VARCHAR(8)    NOT NULL,
		stock       INTEGER       NOT NULL,
		images      TEXT,
		created_at  TIMESTAMP     NOT NULL,
		updated_at  TIMESTAMP     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           VARCHAR(64)   PRIMARY KEY,
		order_number VARCHAR(32)   NOT NULL UNIQUE,
		session_id   VARCHAR(64)   NOT NULL,
		phone        VARCHAR(32)   NOT NULL,
		status       VARCHAR(16)   NOT NULL,
		currency     VARCHAR(8)    NOT NULL,
		total        DECIMAL(14,2) NOT NULL,
		summary      TEXT,
		deep_link    TEXT,
		created_at   TIMESTAMP     NOT NULL,
		updated_at   TIMESTAMP     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id         VARCHAR(64)   PRIMARY KEY,
		order_id   VARCHAR(64)   NOT NULL,
		position   INTEGER       NOT NULL,
		product_id VARCHAR(64)   NOT NULL,
		name       VARCHAR(255)  NOT NULL,
		quantity   INTEGER       NOT NULL,
		unit_price DECIMAL(12,2) NOT NULL,
		line_total DECIMAL(14,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(64)  PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		first_name    VARCHAR(128),
		last_name     VARCHAR(128),
		created_at    TIMESTAMP    NOT NULL,
		updated_at    TIMESTAMP    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS kv_blobs (
		k          VARCHAR(191) PRIMARY KEY,
		v          TEXT         NOT NULL,
		updated_at TIMESTAMP    NOT NULL
	)`,
}

// Migrate creates the storefront tables if they do not exist yet.
func Migrate(ctx context.Context, db *DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
