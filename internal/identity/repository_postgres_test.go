package identity

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestPostgresCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs("u1", "a@example.com", "hash", now).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), Identity{UID: "u1", Email: "a@example.com", PasswordHash: "hash", CreatedAt: now})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"uid", "email", "password_hash", "created_at"}).
		AddRow("u1", "a@example.com", "hash", now)
	mock.ExpectQuery("FROM accounts WHERE email").WithArgs("a@example.com").WillReturnRows(rows)
	mock.ExpectQuery("FROM accounts WHERE email").WithArgs("b@example.com").WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UID)

	_, err = repo.GetByEmail(context.Background(), "b@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
