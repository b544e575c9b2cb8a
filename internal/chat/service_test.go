// AngelaMos | 2026
// service_test.go

package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/gemfluence/backend/internal/core"
	"github.com/gemfluence/backend/internal/influencer"
)

type mockUnlockRepo struct {
	balance   int
	pairs     map[string]bool
	unlockErr error
}

func pairKey(userID, influencerID string) string {
	return userID + "|" + influencerID
}

func newMockUnlockRepo(balance int) *mockUnlockRepo {
	return &mockUnlockRepo{balance: balance, pairs: map[string]bool{}}
}

func (m *mockUnlockRepo) PairExists(
	_ context.Context,
	userID, influencerID string,
) (bool, error) {
	return m.pairs[pairKey(userID, influencerID)], nil
}

func (m *mockUnlockRepo) UnlockWithDebit(
	_ context.Context,
	userID, influencerID string,
	cost int,
) (*ChatUnlock, error) {
	if m.unlockErr != nil {
		return nil, m.unlockErr
	}
	if m.pairs[pairKey(userID, influencerID)] {
		return nil, core.ErrDuplicateKey
	}
	if m.balance < cost {
		return nil, errInsufficientGems
	}

	m.balance -= cost
	m.pairs[pairKey(userID, influencerID)] = true

	return &ChatUnlock{
		ID:           "unlock-1",
		UserID:       userID,
		InfluencerID: influencerID,
	}, nil
}

type mockDirectory struct {
	influencers map[string]*influencer.Influencer
}

func (m *mockDirectory) GetByID(
	_ context.Context,
	id string,
) (*influencer.Influencer, error) {
	inf, ok := m.influencers[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return inf, nil
}

type mockNotifier struct {
	sent [][3]string
}

func (m *mockNotifier) TrySendMessage(
	_ context.Context,
	from, to, text string,
) {
	m.sent = append(m.sent, [3]string{from, to, text})
}

func newUnlockService(
	repo *mockUnlockRepo,
	notifier *mockNotifier,
) *Service {
	directory := &mockDirectory{
		influencers: map[string]*influencer.Influencer{
			"inf-1": {
				ID:           "inf-1",
				UserID:       "owner-1",
				Bio:          "fitness coach",
				GemCostPerDM: 10,
			},
		},
	}
	return NewService(repo, directory, notifier)
}

func TestUnlockDebitsAndNotifies(t *testing.T) {
	repo := newMockUnlockRepo(20)
	notifier := &mockNotifier{}
	svc := newUnlockService(repo, notifier)

	unlock, err := svc.Unlock(context.Background(), "user-1", "inf-1")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}

	if repo.balance != 10 {
		t.Errorf("balance = %d, want 10", repo.balance)
	}
	if unlock.UserID != "user-1" || unlock.InfluencerID != "inf-1" {
		t.Errorf("unlock pair = (%s, %s)", unlock.UserID, unlock.InfluencerID)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(notifier.sent))
	}
	msg := notifier.sent[0]
	if msg[0] != "user-1" || msg[1] != "owner-1" || msg[2] != "Hello" {
		t.Errorf("greeting = %v, want from buyer to profile owner", msg)
	}
}

func TestUnlockUnknownInfluencer(t *testing.T) {
	svc := newUnlockService(newMockUnlockRepo(20), &mockNotifier{})

	_, err := svc.Unlock(context.Background(), "user-1", "inf-missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestUnlockInsufficientGems(t *testing.T) {
	repo := newMockUnlockRepo(5)
	notifier := &mockNotifier{}
	svc := newUnlockService(repo, notifier)

	_, err := svc.Unlock(context.Background(), "user-1", "inf-1")
	if !errors.Is(err, ErrInsufficientGems) {
		t.Fatalf("got %v, want ErrInsufficientGems", err)
	}

	if repo.balance != 5 {
		t.Fatalf("balance = %d, want unchanged 5", repo.balance)
	}
	if len(notifier.sent) != 0 {
		t.Fatal("no greeting on failed unlock")
	}
}

func TestUnlockSecondAttemptFails(t *testing.T) {
	repo := newMockUnlockRepo(100)
	svc := newUnlockService(repo, &mockNotifier{})
	ctx := context.Background()

	if _, err := svc.Unlock(ctx, "user-1", "inf-1"); err != nil {
		t.Fatalf("first unlock: %v", err)
	}

	_, err := svc.Unlock(ctx, "user-1", "inf-1")
	if !errors.Is(err, ErrAlreadyUnlocked) {
		t.Fatalf("got %v, want ErrAlreadyUnlocked", err)
	}

	if repo.balance != 90 {
		t.Fatalf("balance = %d, want single debit to 90", repo.balance)
	}
}

func TestUnlockDuplicateRaceMapsToAlreadyUnlocked(t *testing.T) {
	repo := newMockUnlockRepo(100)
	repo.unlockErr = core.ErrDuplicateKey
	svc := newUnlockService(repo, &mockNotifier{})

	_, err := svc.Unlock(context.Background(), "user-1", "inf-1")
	if !errors.Is(err, ErrAlreadyUnlocked) {
		t.Fatalf("got %v, want ErrAlreadyUnlocked", err)
	}
}
