// AngelaMos | 2026
// entity.go

package chat

import "time"

// ChatUnlock is a permanent grant for one (user, influencer) pair. Rows are
// append-only; the unique pair constraint is the idempotency guard.
type ChatUnlock struct {
	ID           string    `db:"id"            json:"id"`
	UserID       string    `db:"user_id"       json:"user_id"`
	InfluencerID string    `db:"influencer_id" json:"influencer_id"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}
