// AngelaMos | 2026
// repository.go

package gems

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gemfluence/backend/internal/core"
)

type Repository interface {
	GetBalance(ctx context.Context, userID string) (int, error)
	CreditPurchase(
		ctx context.Context,
		userID string,
		amount int,
		externalRef string,
	) (*Transaction, error)
	ListTransactions(
		ctx context.Context,
		userID string,
		limit int,
	) ([]*Transaction, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetBalance(
	ctx context.Context,
	userID string,
) (int, error) {
	var count int
	query := `SELECT gem_count FROM gem_balances WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, core.ErrNotFound
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return count, nil
}

// CreditPurchase appends a completed purchase transaction and increments
// the balance in one database transaction. The UPDATE takes the row lock,
// so concurrent credits and debits for the same user serialize on it.
func (r *repository) CreditPurchase(
	ctx context.Context,
	userID string,
	amount int,
	externalRef string,
) (*Transaction, error) {
	txn := &Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Amount:      amount,
		Type:        TransactionTypePurchase,
		Status:      TransactionStatusCompleted,
		ExternalRef: &externalRef,
	}

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO transactions (id, user_id, amount, type, status, external_ref)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at`

		if err := tx.QueryRowxContext(
			ctx,
			insert,
			txn.ID,
			txn.UserID,
			txn.Amount,
			txn.Type,
			txn.Status,
			txn.ExternalRef,
		).Scan(&txn.CreatedAt); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		update := `
			UPDATE gem_balances
			SET gem_count = gem_count + $1, updated_at = NOW()
			WHERE user_id = $2`

		res, err := tx.ExecContext(ctx, update, amount, userID)
		if err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if rows == 0 {
			return core.ErrNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

func (r *repository) ListTransactions(
	ctx context.Context,
	userID string,
	limit int,
) ([]*Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, user_id, amount, type, status, external_ref, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	txns := []*Transaction{}
	if err := r.db.SelectContext(ctx, &txns, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return txns, nil
}
