// AngelaMos | 2026
// dto.go

package chat

type UnlockRequest struct {
	InfluencerID string `json:"influencer_id" validate:"required,uuid"`
}

type UnlockResponse struct {
	Message string      `json:"message"`
	Unlock  *ChatUnlock `json:"unlock"`
}
