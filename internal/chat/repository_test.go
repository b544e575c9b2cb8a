// AngelaMos | 2026
// repository_test.go

package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestUnlockWithDebitHappyPath(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT gem_count FROM gem_balances").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"gem_count"}).AddRow(20))
	mock.ExpectExec("UPDATE gem_balances").
		WithArgs(10, "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO chat_unlocks").
		WillReturnRows(
			sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()),
		)
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	unlock, err := repo.UnlockWithDebit(
		context.Background(),
		"user-1",
		"inf-1",
		10,
	)
	if err != nil {
		t.Fatalf("unlock with debit: %v", err)
	}

	if unlock.UserID != "user-1" || unlock.InfluencerID != "inf-1" {
		t.Errorf("unlock pair = (%s, %s)", unlock.UserID, unlock.InfluencerID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUnlockWithDebitInsufficientBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT gem_count FROM gem_balances").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"gem_count"}).AddRow(5))
	mock.ExpectRollback()

	_, err := repo.UnlockWithDebit(context.Background(), "user-1", "inf-1", 10)
	if !errors.Is(err, errInsufficientGems) {
		t.Fatalf("got %v, want errInsufficientGems", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPairExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-1", "inf-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.PairExists(context.Background(), "user-1", "inf-1")
	if err != nil {
		t.Fatalf("pair exists: %v", err)
	}
	if !exists {
		t.Fatal("expected pair to exist")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
