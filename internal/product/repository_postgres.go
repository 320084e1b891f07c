package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/wichananm65/fireworks-shop/internal/database"
)

type PostgresRepository struct {
	db *sqlx.DB
}

const (
	productColumns = `id, name, category, price, description, image, in_stock, featured`

	listProductsQuery   = `SELECT ` + productColumns + ` FROM products ORDER BY seq`
	getProductByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	listByIDsQuery      = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY seq`

	insertProductQuery = `
		INSERT INTO products (id, name, category, price, description, image, in_stock, featured)
		VALUES (:id, :name, :category, :price, :description, :image, :in_stock, :featured)
	`
	updateProductQuery = `
		UPDATE products
		SET name = :name,
			category = :category,
			price = :price,
			description = :description,
			image = :image,
			in_stock = :in_stock,
			featured = :featured
		WHERE id = :id
	`
	deleteProductQuery    = `DELETE FROM products WHERE id = $1`
	deleteAllProductQuery = `DELETE FROM products`
)

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every product in insertion order.
func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0)
	if err := r.db.SelectContext(ctx, &out, listProductsQuery); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	if err := r.db.GetContext(ctx, &p, getProductByIDQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// ListByIDs retrieves all products whose id is in ids. Returns empty slice
// when input is empty.
func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	out := make([]Product, 0, len(ids))
	if err := r.db.SelectContext(ctx, &out, listByIDsQuery, pq.Array(ids)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, err := r.db.NamedExecContext(ctx, insertProductQuery, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p Product) (Product, error) {
	res, err := r.db.NamedExecContext(ctx, updateProductQuery, p)
	if err != nil {
		return Product{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if n == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return err
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

// Reset replaces the products table in one transaction. An empty slice
// clears the table.
func (r *PostgresRepository) Reset(ctx context.Context, products []Product) error {
	return database.Tx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteAllProductQuery); err != nil {
			return err
		}
		for _, p := range products {
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			if _, err := tx.NamedExecContext(ctx, insertProductQuery, p); err != nil {
				return err
			}
		}
		return nil
	})
}
