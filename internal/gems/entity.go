// AngelaMos | 2026
// entity.go

package gems

import "time"

const (
	TransactionTypePurchase = "purchase"
	TransactionTypeDM       = "dm"

	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// GemBalance is the single ledger row per user. gem_count is guarded by a
// CHECK constraint and by row-level locking in the debit path.
type GemBalance struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	GemCount  int       `db:"gem_count"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Transaction is an append-only audit record. Amount is positive for
// purchases and negative for dm debits.
type Transaction struct {
	ID          string    `db:"id"           json:"id"`
	UserID      string    `db:"user_id"      json:"user_id"`
	Amount      int       `db:"amount"       json:"amount"`
	Type        string    `db:"type"         json:"type"`
	Status      string    `db:"status"       json:"status"`
	ExternalRef *string   `db:"external_ref" json:"external_ref,omitempty"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}
