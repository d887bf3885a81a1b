package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/georgemunganga/storefront/internal/platform/database"
)

type sqlRepo struct{ db *database.DB }

// NewSQLRepository returns a Repository over the products table.
func NewSQLRepository(db *database.DB) Repository { return &sqlRepo{db: db} }

const productColumns = `id,name,description,category,price,currency,stock,images,created_at,updated_at`

func (r *sqlRepo) Create(ctx context.Context, p *Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO products (`+productColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?)`),
		p.ID, p.Name, p.Description, p.Category, p.Price,
		p.Currency, p.Stock, string(images), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var description, images sql.NullString
	err := scan(&p.ID, &p.Name, &description, &p.Category, &p.Price,
		&p.Currency, &p.Stock, &images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Images = []string{}
	if images.Valid && images.String != "" {
		if err := json.Unmarshal([]byte(images.String), &p.Images); err != nil {
			return nil, fmt.Errorf("decode images of product %s: %w", p.ID, err)
		}
	}
	return p, nil
}

func (r *sqlRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+productColumns+` FROM products WHERE id=?`), id)
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *sqlRepo) List(ctx context.Context, category string) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	if category != "" {
		query += ` AND category=?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *sqlRepo) Update(ctx context.Context, p *Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products
		SET name=?, description=?, category=?, price=?, currency=?,
		    stock=?, images=?, updated_at=?
		WHERE id=?`),
		p.Name, p.Description, p.Category, p.Price, p.Currency,
		p.Stock, string(images), p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectOne(res)
}

func (r *sqlRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
