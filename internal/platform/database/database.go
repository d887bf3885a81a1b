package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a DB. Repositories write queries with
// '?' placeholders and call Rebind before executing them.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// DB is a *sql.DB that remembers its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Rebind rewrites '?' placeholders into the dialect's positional form.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 1
	for _, r := range query {
		if r == '?' {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Rebind is shorthand for db.Dialect.Rebind.
func (db *DB) Rebind(query string) string { return db.Dialect.Rebind(query) }

// Open connects to the database and verifies the connection, retrying the
// ping a few times while the server comes up.
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (*DB, error) {
	d := Dialect(driver)
	switch d {
	case Postgres, MySQL, SQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if d == SQLite {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	const maxRetries = 5
	for i := 1; ; i++ {
		err = sqlDB.PingContext(ctx)
		if err == nil {
			break
		}
		if i == maxRetries {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
		}
		logger.Warn("database ping failed", zap.Int("attempt", i), zap.Error(err))
		select {
		case <-ctx.Done():
			sqlDB.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	logger.Info("connected to database", zap.String("driver", driver))
	return &DB{DB: sqlDB, Dialect: d}, nil
}

// InTx runs fn inside a transaction, committing when fn returns nil.
func (db *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
