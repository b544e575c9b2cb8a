// AngelaMos | 2026
// dto.go

package influencer

import "time"

type BecomeRequest struct {
	Bio          string `json:"bio"             validate:"required,max=1000"`
	GemCostPerDM int    `json:"gem_cost_per_dm" validate:"required,min=1"`
}

type BecomeResponse struct {
	Message    string      `json:"message"`
	Influencer *Influencer `json:"influencer"`
}

type OwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ListItemResponse struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Bio          string        `json:"bio"`
	GemCostPerDM int           `json:"gem_cost_per_dm"`
	CreatedAt    time.Time     `json:"created_at"`
	User         OwnerResponse `json:"user"`
	ChatUnlocked bool          `json:"chat_unlocked"`
}

type ListParams struct {
	Page    int
	PerPage int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

func toListItem(row *ListedInfluencer) *ListItemResponse {
	return &ListItemResponse{
		ID:           row.ID,
		UserID:       row.UserID,
		Bio:          row.Bio,
		GemCostPerDM: row.GemCostPerDM,
		CreatedAt:    row.CreatedAt,
		User: OwnerResponse{
			ID:    row.UserID,
			Name:  row.UserName,
			Email: row.UserEmail,
		},
		ChatUnlocked: row.ChatUnlocked,
	}
}
