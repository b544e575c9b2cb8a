// AngelaMos | 2026
// service.go

package influencer

import (
	"context"
	"errors"
	"fmt"

	"github.com/gemfluence/backend/internal/core"
)

var ErrAlreadyInfluencer = errors.New("user is already an influencer")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Become creates the profile and promotes the user. The transition is
// one-time: a second attempt fails with ErrAlreadyInfluencer regardless of
// whether it raced the first.
func (s *Service) Become(
	ctx context.Context,
	userID string,
	req BecomeRequest,
) (*BecomeResponse, error) {
	inf, err := s.repo.CreateWithPromotion(
		ctx,
		userID,
		req.Bio,
		req.GemCostPerDM,
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrAlreadyInfluencer
		}
		return nil, fmt.Errorf("become influencer: %w", err)
	}

	return &BecomeResponse{
		Message:    "You are now an influencer",
		Influencer: inf,
	}, nil
}

// Profile returns the caller's own influencer record.
func (s *Service) Profile(
	ctx context.Context,
	userID string,
) (*Influencer, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// List pages through all profiles other than the viewer's own.
func (s *Service) List(
	ctx context.Context,
	viewerID string,
	params ListParams,
) ([]*ListItemResponse, int, error) {
	params.Normalize()

	rows, total, err := s.repo.List(ctx, viewerID, params.Page, params.PerPage)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*ListItemResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toListItem(row))
	}

	return items, total, nil
}

// GetByID exposes profile lookup for the chat unlock flow.
func (s *Service) GetByID(ctx context.Context, id string) (*Influencer, error) {
	return s.repo.GetByID(ctx, id)
}
