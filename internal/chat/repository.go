// AngelaMos | 2026
// repository.go

package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/gemfluence/backend/internal/core"
	"github.com/gemfluence/backend/internal/gems"
)

var errInsufficientGems = errors.New("insufficient gems")

type Repository interface {
	PairExists(ctx context.Context, userID, influencerID string) (bool, error)
	UnlockWithDebit(
		ctx context.Context,
		userID, influencerID string,
		cost int,
	) (*ChatUnlock, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) PairExists(
	ctx context.Context,
	userID, influencerID string,
) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM chat_unlocks
			WHERE user_id = $1 AND influencer_id = $2
		)`

	if err := r.db.GetContext(
		ctx,
		&exists,
		query,
		userID,
		influencerID,
	); err != nil {
		return false, fmt.Errorf("check unlock: %w", err)
	}

	return exists, nil
}

// UnlockWithDebit runs the debit-check-and-insert atomically. The balance
// row is locked with FOR UPDATE before the re-check, so two concurrent
// unlocks for the same user serialize and the second sees the debited
// count. A duplicate pair insert maps to ErrDuplicateKey.
func (r *repository) UnlockWithDebit(
	ctx context.Context,
	userID, influencerID string,
	cost int,
) (*ChatUnlock, error) {
	unlock := &ChatUnlock{
		ID:           uuid.New().String(),
		UserID:       userID,
		InfluencerID: influencerID,
	}

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var gemCount int
		lock := `
			SELECT gem_count FROM gem_balances
			WHERE user_id = $1
			FOR UPDATE`

		if err := tx.GetContext(ctx, &gemCount, lock, userID); err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		if gemCount < cost {
			return errInsufficientGems
		}

		debit := `
			UPDATE gem_balances
			SET gem_count = gem_count - $1, updated_at = NOW()
			WHERE user_id = $2`

		if _, err := tx.ExecContext(ctx, debit, cost, userID); err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}

		insertUnlock := `
			INSERT INTO chat_unlocks (id, user_id, influencer_id)
			VALUES ($1, $2, $3)
			RETURNING created_at`

		if err := tx.QueryRowxContext(
			ctx,
			insertUnlock,
			unlock.ID,
			unlock.UserID,
			unlock.InfluencerID,
		).Scan(&unlock.CreatedAt); err != nil {
			if isDuplicateKeyError(err) {
				return core.ErrDuplicateKey
			}
			return fmt.Errorf("insert unlock: %w", err)
		}

		insertTxn := `
			INSERT INTO transactions (id, user_id, amount, type, status)
			VALUES ($1, $2, $3, $4, $5)`

		if _, err := tx.ExecContext(
			ctx,
			insertTxn,
			uuid.New().String(),
			userID,
			-cost,
			gems.TransactionTypeDM,
			gems.TransactionStatusCompleted,
		); err != nil {
			return fmt.Errorf("insert dm transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return unlock, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
