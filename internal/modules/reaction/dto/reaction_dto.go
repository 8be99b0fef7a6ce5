package dto

type ReactionToggleRequest struct {
	Reaction string `json:"reaction" binding:"required,oneof=like dislike"`
}

type ReactionsResponse struct {
	Likes       int64   `json:"likes"`
	Dislikes    int64   `json:"dislikes"`
	UserReacted *string `json:"user_reacted"`
}
