// AngelaMos | 2026
// service_test.go

package influencer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gemfluence/backend/internal/core"
)

type mockInfluencerRepo struct {
	byUser map[string]*Influencer
	listed []*ListedInfluencer
}

func newMockInfluencerRepo() *mockInfluencerRepo {
	return &mockInfluencerRepo{byUser: map[string]*Influencer{}}
}

func (m *mockInfluencerRepo) CreateWithPromotion(
	_ context.Context,
	userID, bio string,
	gemCostPerDM int,
) (*Influencer, error) {
	if _, exists := m.byUser[userID]; exists {
		return nil, core.ErrDuplicateKey
	}

	inf := &Influencer{
		ID:           "inf-" + userID,
		UserID:       userID,
		Bio:          bio,
		GemCostPerDM: gemCostPerDM,
		CreatedAt:    time.Now(),
	}
	m.byUser[userID] = inf
	return inf, nil
}

func (m *mockInfluencerRepo) GetByID(
	_ context.Context,
	id string,
) (*Influencer, error) {
	for _, inf := range m.byUser {
		if inf.ID == id {
			return inf, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *mockInfluencerRepo) GetByUserID(
	_ context.Context,
	userID string,
) (*Influencer, error) {
	inf, ok := m.byUser[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return inf, nil
}

func (m *mockInfluencerRepo) List(
	_ context.Context,
	viewerID string,
	page, perPage int,
) ([]*ListedInfluencer, int, error) {
	var rows []*ListedInfluencer
	for _, row := range m.listed {
		if row.UserID != viewerID {
			rows = append(rows, row)
		}
	}
	return rows, len(rows), nil
}

func TestBecomePromotesOnce(t *testing.T) {
	repo := newMockInfluencerRepo()
	svc := NewService(repo)
	ctx := context.Background()

	resp, err := svc.Become(ctx, "user-1", BecomeRequest{
		Bio:          "travel photography",
		GemCostPerDM: 15,
	})
	if err != nil {
		t.Fatalf("become: %v", err)
	}

	if resp.Influencer.GemCostPerDM != 15 {
		t.Errorf("gem cost = %d, want 15", resp.Influencer.GemCostPerDM)
	}
	if resp.Message != "You are now an influencer" {
		t.Errorf("message = %q", resp.Message)
	}

	_, err = svc.Become(ctx, "user-1", BecomeRequest{
		Bio:          "second try",
		GemCostPerDM: 5,
	})
	if !errors.Is(err, ErrAlreadyInfluencer) {
		t.Fatalf("got %v, want ErrAlreadyInfluencer", err)
	}
}

func TestProfileReturnsOwnRecord(t *testing.T) {
	repo := newMockInfluencerRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Profile(ctx, "user-1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound before promotion", err)
	}

	if _, err := svc.Become(ctx, "user-1", BecomeRequest{
		Bio:          "cooking",
		GemCostPerDM: 8,
	}); err != nil {
		t.Fatalf("become: %v", err)
	}

	inf, err := svc.Profile(ctx, "user-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if inf.UserID != "user-1" || inf.GemCostPerDM != 8 {
		t.Errorf("profile = %+v", inf)
	}
}

func TestListExcludesViewer(t *testing.T) {
	repo := newMockInfluencerRepo()
	repo.listed = []*ListedInfluencer{
		{
			ID:           "inf-1",
			UserID:       "user-1",
			Bio:          "mine",
			GemCostPerDM: 5,
		},
		{
			ID:           "inf-2",
			UserID:       "user-2",
			Bio:          "theirs",
			GemCostPerDM: 8,
			UserName:     "Other",
			UserEmail:    "other@example.com",
			ChatUnlocked: true,
		},
	}
	svc := NewService(repo)

	items, total, err := svc.List(context.Background(), "user-1", ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if total != 1 || len(items) != 1 {
		t.Fatalf("total = %d, items = %d, want 1 each", total, len(items))
	}

	item := items[0]
	if item.UserID == "user-1" {
		t.Fatal("viewer's own profile must be excluded")
	}
	if item.User.Name != "Other" || item.User.Email != "other@example.com" {
		t.Errorf("owner = %+v", item.User)
	}
	if !item.ChatUnlocked {
		t.Error("chat_unlocked flag lost")
	}
}

func TestListParamsNormalize(t *testing.T) {
	params := ListParams{Page: 0, PerPage: 0}
	params.Normalize()
	if params.Page != 1 || params.PerPage != 10 {
		t.Errorf("defaults = %+v, want page 1 per_page 10", params)
	}

	params = ListParams{Page: 2, PerPage: 500}
	params.Normalize()
	if params.PerPage != 100 {
		t.Errorf("per_page = %d, want capped at 100", params.PerPage)
	}
}
