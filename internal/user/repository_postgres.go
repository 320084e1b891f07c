package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const (
	profileColumns = `uid, email, name, role, phone, address, created_at`

	getProfileQuery = `SELECT ` + profileColumns + ` FROM users WHERE uid = $1`
	listByRoleQuery = `SELECT ` + profileColumns + ` FROM users WHERE role = $1 ORDER BY created_at`

	insertProfileQuery = `
		INSERT INTO users (uid, email, name, role, phone, address, created_at)
		VALUES (:uid, :email, :name, :role, :phone, :address, :created_at)
	`
	updateProfileQuery = `
		UPDATE users
		SET name = :name,
			role = :role,
			phone = :phone,
			address = :address
		WHERE uid = :uid
	`
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, uid string) (Profile, error) {
	var p Profile
	if err := r.db.GetContext(ctx, &p, getProfileQuery, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Profile) (Profile, error) {
	if _, err := r.db.NamedExecContext(ctx, insertProfileQuery, p); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Profile{}, ErrExists
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p Profile) (Profile, error) {
	result, err := r.db.NamedExecContext(ctx, updateProfileQuery, p)
	if err != nil {
		return Profile{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Profile{}, err
	}
	if affected == 0 {
		return Profile{}, ErrNotFound
	}
	return r.Get(ctx, p.UID)
}

func (r *PostgresRepository) ListByRole(ctx context.Context, role Role) ([]Profile, error) {
	out := make([]Profile, 0)
	if err := r.db.SelectContext(ctx, &out, listByRoleQuery, role); err != nil {
		return nil, err
	}
	return out, nil
}
