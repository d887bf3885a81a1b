package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgemunganga/storefront/internal/platform/database"
)

type sqlRepo struct{ db *database.DB }

// NewSQLRepository returns a Repository over the orders and order_lines tables.
func NewSQLRepository(db *database.DB) Repository { return &sqlRepo{db: db} }

const orderColumns = `id,order_number,session_id,phone,status,currency,total,summary,deep_link,created_at,updated_at`

// CreateOrder inserts the order and all its lines inside a single transaction.
func (r *sqlRepo) CreateOrder(ctx context.Context, o *Order) error {
	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.db.Rebind(`
			INSERT INTO orders (`+orderColumns+`)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`),
			o.ID, o.OrderNumber, o.SessionID, o.Phone, o.Status, o.Currency,
			o.Total, o.Summary, o.DeepLink, o.CreatedAt, o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, l := range o.Lines {
			_, err = tx.ExecContext(ctx, r.db.Rebind(`
				INSERT INTO order_lines
				  (id, order_id, position, product_id, name, quantity, unit_price, line_total)
				VALUES (?,?,?,?,?,?,?,?)`),
				l.ID, o.ID, l.Position, l.ProductID, l.Name, l.Quantity, l.UnitPrice, l.LineTotal)
			if err != nil {
				return fmt.Errorf("insert order_line: %w", err)
			}
		}
		return nil
	})
}

func (r *sqlRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+orderColumns+` FROM orders WHERE order_number=?`), orderNumber)
	o, err := scanOrder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Lines, err = r.listLines(ctx, o.ID)
	return o, err
}

func (r *sqlRepo) ListRecent(ctx context.Context, limit int) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT `+orderColumns+` FROM orders
		ORDER BY created_at DESC, order_number DESC LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *sqlRepo) UpdateStatus(ctx context.Context, orderNumber string, status OrderStatus) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE orders SET status=?, updated_at=? WHERE order_number=?`),
		status, time.Now().UTC(), orderNumber)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var summary, deepLink sql.NullString
	err := scan(&o.ID, &o.OrderNumber, &o.SessionID, &o.Phone, &o.Status, &o.Currency,
		&o.Total, &summary, &deepLink, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Summary = summary.String
	o.DeepLink = deepLink.String
	return o, nil
}

func (r *sqlRepo) listLines(ctx context.Context, orderID string) ([]*Line, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, order_id, position, product_id, name, quantity, unit_price, line_total
		FROM order_lines WHERE order_id=? ORDER BY position ASC`), orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []*Line
	for rows.Next() {
		l := &Line{}
		if err := rows.Scan(&l.ID, &l.OrderID, &l.Position, &l.ProductID, &l.Name,
			&l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
