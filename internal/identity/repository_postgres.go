package identity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const (
	insertAccountQuery = `
		INSERT INTO accounts (uid, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	getAccountByEmailQuery = `SELECT uid, email, password_hash, created_at FROM accounts WHERE email = $1`
	getAccountByIDQuery    = `SELECT uid, email, password_hash, created_at FROM accounts WHERE uid = $1`

	uniqueViolation = "23505"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, id Identity) (Identity, error) {
	_, err := r.db.ExecContext(ctx, insertAccountQuery, id.UID, id.Email, id.PasswordHash, id.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Identity{}, ErrEmailExists
		}
		return Identity{}, err
	}
	return id, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Identity, error) {
	var id Identity
	if err := r.db.GetContext(ctx, &id, getAccountByEmailQuery, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, uid string) (Identity, error) {
	var id Identity
	if err := r.db.GetContext(ctx, &id, getAccountByIDQuery, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	return id, nil
}
