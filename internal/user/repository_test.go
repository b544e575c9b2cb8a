// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestCreateInsertsUserAndZeroBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			"id-1",
			"alice@example.com",
			"hashed",
			"Alice",
			RoleStandardUser,
		).
		WillReturnRows(
			sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(now, now),
		)
	mock.ExpectExec("INSERT INTO gem_balances").
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &User{
		ID:           "id-1",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		Name:         "Alice",
		Role:         RoleStandardUser,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	require.Equal(t, now, user.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackWhenBalanceInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(
			sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(now, now),
		)
	mock.ExpectExec("INSERT INTO gem_balances").
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	user := &User{
		ID:           "id-1",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		Name:         "Alice",
		Role:         RoleStandardUser,
	}
	require.Error(t, repo.Create(context.Background(), user))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidRole(t *testing.T) {
	require.True(t, ValidRole(RoleStandardUser))
	require.True(t, ValidRole(RoleInfluencer))
	require.True(t, ValidRole(RoleAdmin))
	require.False(t, ValidRole("superuser"))
	require.False(t, ValidRole(""))
}
