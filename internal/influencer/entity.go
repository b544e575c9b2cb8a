// AngelaMos | 2026
// entity.go

package influencer

import "time"

// Influencer is the paid-DM profile attached to a user. One profile per
// user, enforced by a unique constraint.
type Influencer struct {
	ID           string    `db:"id"              json:"id"`
	UserID       string    `db:"user_id"         json:"user_id"`
	Bio          string    `db:"bio"             json:"bio"`
	GemCostPerDM int       `db:"gem_cost_per_dm" json:"gem_cost_per_dm"`
	CreatedAt    time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"      json:"updated_at"`
}

// ListedInfluencer is a listing row with the owning user embedded and the
// caller's unlock state resolved.
type ListedInfluencer struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Bio          string    `db:"bio"`
	GemCostPerDM int       `db:"gem_cost_per_dm"`
	CreatedAt    time.Time `db:"created_at"`
	UserName     string    `db:"user_name"`
	UserEmail    string    `db:"user_email"`
	ChatUnlocked bool      `db:"chat_unlocked"`
}
