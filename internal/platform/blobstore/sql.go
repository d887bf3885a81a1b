package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgemunganga/storefront/internal/platform/database"
)

// SQL keeps blobs in the kv_blobs table. Save deletes and re-inserts inside
// one transaction so the same statements work on every dialect.
type SQL struct{ db *database.DB }

func NewSQL(db *database.DB) *SQL { return &SQL{db: db} }

func (s *SQL) Load(ctx context.Context, key string) ([]byte, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT v FROM kv_blobs WHERE k=?`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load blob %s: %w", key, err)
	}
	return []byte(v), nil
}

func (s *SQL) Save(ctx context.Context, key string, data []byte) error {
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM kv_blobs WHERE k=?`), key); err != nil {
			return fmt.Errorf("replace blob %s: %w", key, err)
		}
		_, err := tx.ExecContext(ctx, s.db.Rebind(`INSERT INTO kv_blobs (k, v, updated_at) VALUES (?,?,?)`),
			key, string(data), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("insert blob %s: %w", key, err)
		}
		return nil
	})
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM kv_blobs WHERE k=?`), key)
	return err
}
