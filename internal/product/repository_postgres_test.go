package product

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "name", "category", "price", "description", "image", "in_stock", "featured"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestPostgresList_InsertionOrder(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows(productCols).
		AddRow("b", "Second", "Rockets", "20.00", "", "", true, false).
		AddRow("a", "First", "Sparklers", "10.50", "", "", false, true)
	mock.ExpectQuery("FROM products ORDER BY seq").WillReturnRows(rows)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.True(t, all[1].Price.Equal(decimal.RequireFromString("10.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList_Error(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM products").WillReturnError(errors.New("no such table"))

	_, err := repo.List(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM products WHERE id").WithArgs("x").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListByIDs(t *testing.T) {
	repo, mock := newMockRepo(t)

	got, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	mock.ExpectQuery("WHERE id = ANY").
		WillReturnRows(sqlmock.NewRows(productCols).AddRow("a", "A", "Rockets", "1", "", "", true, false))
	got, err = repo.ListByIDs(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateDelete_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM products WHERE id").WithArgs("x").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), Product{ID: "x", Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "x"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReset_Transactional(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM products").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO products").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO products").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.Reset(context.Background(), []Product{
		{ID: "a", Name: "A", Category: "Rockets"},
		{ID: "b", Name: "B", Category: "Rockets"},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
