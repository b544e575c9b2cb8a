// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Roles form a closed set. A user holds exactly one at a time; the only
// transition out of standard_user is influencer promotion.
const (
	RoleStandardUser = "standard_user"
	RoleInfluencer   = "influencer"
	RoleAdmin        = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RoleStandardUser, RoleInfluencer, RoleAdmin:
		return true
	}
	return false
}
