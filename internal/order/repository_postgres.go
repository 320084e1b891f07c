package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type PostgresRepository struct {
	db *sqlx.DB
}

const (
	orderColumns = `id, reference, user_id, customer_info, items, total_amount, status, payment_method, order_date, verification_status, verification_notes`

	insertOrderQuery = `
		INSERT INTO orders (id, reference, user_id, customer_info, items, total_amount, status, payment_method, order_date, verification_status, verification_notes)
		VALUES (:id, :reference, :user_id, :customer_info, :items, :total_amount, :status, :payment_method, :order_date, :verification_status, :verification_notes)
	`
	getOrderQuery        = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	listOrdersQuery      = `SELECT ` + orderColumns + ` FROM orders ORDER BY order_date DESC`
	listUserOrdersQuery  = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY order_date DESC`
	updateOrderStatusSQL = `
		UPDATE orders
		SET status = $1,
			verification_status = COALESCE(NULLIF($2, ''), verification_status),
			verification_notes = COALESCE($3, verification_notes)
		WHERE id = $4 AND status = $5
		RETURNING ` + orderColumns
)

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, o Order) (Order, error) {
	if _, err := r.db.NamedExecContext(ctx, insertOrderQuery, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Order, error) {
	var o Order
	if err := r.db.GetContext(ctx, &o, getOrderQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, uid string) ([]Order, error) {
	out := make([]Order, 0)
	if err := r.db.SelectContext(ctx, &out, listUserOrdersQuery, uid); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Order, error) {
	out := make([]Order, 0)
	if err := r.db.SelectContext(ctx, &out, listOrdersQuery); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus is a single conditional UPDATE; a concurrent writer that
// already moved the order makes it match zero rows.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, expected Status, t Transition) (Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, updateOrderStatusSQL, t.Status, t.Verification, t.Notes, id, expected)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Order{}, err
	}
	if _, err := r.Get(ctx, id); err != nil {
		return Order{}, err
	}
	return Order{}, ErrStaleStatus
}
