// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Token is the issued-token registry row. A bearer token is only honored
// while its row exists; logout and refresh delete every row for the user,
// which revokes the whole pair at once.
type Token struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	Scope     string    `db:"scope"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
