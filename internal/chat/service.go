// AngelaMos | 2026
// service.go

package chat

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/gemfluence/backend/internal/core"
	"github.com/gemfluence/backend/internal/influencer"
)

const greetingText = "Hello"

var (
	ErrAlreadyUnlocked  = errors.New("chat already unlocked")
	ErrInsufficientGems = errors.New("not enough gems")
)

// InfluencerDirectory resolves the unlock target and its price.
type InfluencerDirectory interface {
	GetByID(ctx context.Context, id string) (*influencer.Influencer, error)
}

// Notifier delivers the post-unlock greeting. Implementations swallow
// their own failures; the unlock result never depends on the outcome.
type Notifier interface {
	TrySendMessage(ctx context.Context, from, to, text string)
}

type Service struct {
	repo        Repository
	influencers InfluencerDirectory
	notifier    Notifier
}

func NewService(
	repo Repository,
	influencers InfluencerDirectory,
	notifier Notifier,
) *Service {
	return &Service{
		repo:        repo,
		influencers: influencers,
		notifier:    notifier,
	}
}

// Unlock debits the influencer's DM cost and records the grant. The
// pre-checks are advisory; the transaction re-checks both under the row
// lock, so double submits and races resolve to the same errors.
func (s *Service) Unlock(
	ctx context.Context,
	userID, influencerID string,
) (*ChatUnlock, error) {
	inf, err := s.influencers.GetByID(ctx, influencerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("find influencer: %w", err)
	}

	exists, err := s.repo.PairExists(ctx, userID, influencerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyUnlocked
	}

	unlock, err := s.repo.UnlockWithDebit(
		ctx,
		userID,
		influencerID,
		inf.GemCostPerDM,
	)
	if err != nil {
		switch {
		case errors.Is(err, errInsufficientGems):
			return nil, ErrInsufficientGems
		case errors.Is(err, core.ErrDuplicateKey):
			return nil, ErrAlreadyUnlocked
		}
		return nil, err
	}

	core.AddSpanEvent(ctx, "chat.unlocked",
		attribute.String("influencer_id", influencerID),
		attribute.Int("gem_cost", inf.GemCostPerDM),
	)

	s.notifier.TrySendMessage(ctx, userID, inf.UserID, greetingText)

	return unlock, nil
}
