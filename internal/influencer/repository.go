// AngelaMos | 2026
// repository.go

package influencer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/gemfluence/backend/internal/core"
)

type Repository interface {
	CreateWithPromotion(
		ctx context.Context,
		userID, bio string,
		gemCostPerDM int,
	) (*Influencer, error)
	GetByID(ctx context.Context, id string) (*Influencer, error)
	GetByUserID(ctx context.Context, userID string) (*Influencer, error)
	List(
		ctx context.Context,
		viewerID string,
		page, perPage int,
	) ([]*ListedInfluencer, int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateWithPromotion inserts the profile and flips the user's role in one
// transaction, so a crash between the two cannot leave a profile-less
// influencer or an unpromoted profile owner.
func (r *repository) CreateWithPromotion(
	ctx context.Context,
	userID, bio string,
	gemCostPerDM int,
) (*Influencer, error) {
	inf := &Influencer{
		ID:           uuid.New().String(),
		UserID:       userID,
		Bio:          bio,
		GemCostPerDM: gemCostPerDM,
	}

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO influencers (id, user_id, bio, gem_cost_per_dm)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at`

		if err := tx.QueryRowxContext(
			ctx,
			insert,
			inf.ID,
			inf.UserID,
			inf.Bio,
			inf.GemCostPerDM,
		).Scan(&inf.CreatedAt, &inf.UpdatedAt); err != nil {
			if isDuplicateKeyError(err) {
				return core.ErrDuplicateKey
			}
			return fmt.Errorf("insert influencer: %w", err)
		}

		promote := `
			UPDATE users
			SET role = 'influencer', updated_at = NOW()
			WHERE id = $1`

		if _, err := tx.ExecContext(ctx, promote, userID); err != nil {
			return fmt.Errorf("promote user: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return inf, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Influencer, error) {
	var inf Influencer
	query := `
		SELECT id, user_id, bio, gem_cost_per_dm, created_at, updated_at
		FROM influencers
		WHERE id = $1`

	if err := r.db.GetContext(ctx, &inf, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get influencer: %w", err)
	}

	return &inf, nil
}

func (r *repository) GetByUserID(
	ctx context.Context,
	userID string,
) (*Influencer, error) {
	var inf Influencer
	query := `
		SELECT id, user_id, bio, gem_cost_per_dm, created_at, updated_at
		FROM influencers
		WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &inf, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get influencer by user: %w", err)
	}

	return &inf, nil
}

// List returns every profile except the viewer's own, newest first, with
// the viewer's unlock state resolved in the same query.
func (r *repository) List(
	ctx context.Context,
	viewerID string,
	page, perPage int,
) ([]*ListedInfluencer, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM influencers WHERE user_id != $1`

	if err := r.db.GetContext(ctx, &total, countQuery, viewerID); err != nil {
		return nil, 0, fmt.Errorf("count influencers: %w", err)
	}

	query := `
		SELECT i.id, i.user_id, i.bio, i.gem_cost_per_dm, i.created_at,
		       u.name AS user_name, u.email AS user_email,
		       EXISTS (
		           SELECT 1 FROM chat_unlocks cu
		           WHERE cu.user_id = $1 AND cu.influencer_id = i.id
		       ) AS chat_unlocked
		FROM influencers i
		JOIN users u ON u.id = i.user_id
		WHERE i.user_id != $1
		ORDER BY i.created_at DESC
		LIMIT $2 OFFSET $3`

	rows := []*ListedInfluencer{}
	offset := (page - 1) * perPage

	if err := r.db.SelectContext(
		ctx,
		&rows,
		query,
		viewerID,
		perPage,
		offset,
	); err != nil {
		return nil, 0, fmt.Errorf("list influencers: %w", err)
	}

	return rows, total, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
