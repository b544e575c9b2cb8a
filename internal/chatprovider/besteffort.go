// AngelaMos | 2026
// besteffort.go

package chatprovider

import (
	"context"
	"log/slog"
)

// API is the raw provider surface BestEffort wraps. Satisfied by *Client.
type API interface {
	CreateUser(ctx context.Context, uid, name string) error
	CreateAuthToken(ctx context.Context, uid string) (string, error)
	RevokeAuthTokens(ctx context.Context, uid string) error
	SendMessage(ctx context.Context, from, to, text string) error
}

// BestEffort swallows provider failures: every call logs its error and
// returns nothing, so callers cannot accidentally fail an operation on the
// chat side. Chat is a convenience layer, not part of the domain's
// correctness.
type BestEffort struct {
	api    API
	logger *slog.Logger
}

func NewBestEffort(api API, logger *slog.Logger) *BestEffort {
	return &BestEffort{api: api, logger: logger}
}

func (b *BestEffort) TryCreateUser(ctx context.Context, uid, name string) {
	if err := b.api.CreateUser(ctx, uid, name); err != nil {
		b.logger.Error("chat user creation failed",
			"uid", uid,
			"error", err,
		)
	}
}

// SessionToken returns an empty string when the provider is unavailable;
// the login response carries it as-is.
func (b *BestEffort) SessionToken(ctx context.Context, uid string) string {
	token, err := b.api.CreateAuthToken(ctx, uid)
	if err != nil {
		b.logger.Error("chat auth token failed", "uid", uid, "error", err)
		return ""
	}
	return token
}

func (b *BestEffort) TryRevokeSessions(ctx context.Context, uid string) {
	if err := b.api.RevokeAuthTokens(ctx, uid); err != nil {
		b.logger.Error("chat token revocation failed",
			"uid", uid,
			"error", err,
		)
	}
}

func (b *BestEffort) TrySendMessage(ctx context.Context, from, to, text string) {
	if err := b.api.SendMessage(ctx, from, to, text); err != nil {
		b.logger.Error("chat message send failed",
			"from", from,
			"to", to,
			"error", err,
		)
	}
}
