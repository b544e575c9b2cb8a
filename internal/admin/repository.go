// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// BusinessStats aggregates the marketplace counters the admin dashboard
// shows.
type BusinessStats struct {
	TotalUsers       int `db:"total_users"       json:"total_users"`
	TotalInfluencers int `db:"total_influencers" json:"total_influencers"`
	TotalUnlocks     int `db:"total_unlocks"     json:"total_unlocks"`
	GemsPurchased    int `db:"gems_purchased"    json:"gems_purchased"`
	GemsSpent        int `db:"gems_spent"        json:"gems_spent"`
	GemsInWallets    int `db:"gems_in_wallets"   json:"gems_in_wallets"`
}

type Repository interface {
	GetBusinessStats(ctx context.Context) (*BusinessStats, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetBusinessStats(
	ctx context.Context,
) (*BusinessStats, error) {
	var stats BusinessStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM influencers) AS total_influencers,
			(SELECT COUNT(*) FROM chat_unlocks) AS total_unlocks,
			(SELECT COALESCE(SUM(amount), 0) FROM transactions
				WHERE type = 'purchase' AND status = 'completed')
				AS gems_purchased,
			(SELECT COALESCE(-SUM(amount), 0) FROM transactions
				WHERE type = 'dm' AND status = 'completed') AS gems_spent,
			(SELECT COALESCE(SUM(gem_count), 0) FROM gem_balances)
				AS gems_in_wallets`

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("business stats: %w", err)
	}

	return &stats, nil
}
