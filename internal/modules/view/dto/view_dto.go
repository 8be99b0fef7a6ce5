package dto

import (
	"anoa.com/kgscp/internal/entity"
	attachmentDto "anoa.com/kgscp/internal/modules/attachment/dto"
	commentDto "anoa.com/kgscp/internal/modules/comment/dto"
	postDto "anoa.com/kgscp/internal/modules/post/dto"
	profileDto "anoa.com/kgscp/internal/modules/profile/dto"
	reactionDto "anoa.com/kgscp/internal/modules/reaction/dto"
	commonDto "anoa.com/kgscp/pkg/dto"
	"github.com/google/uuid"
)

type BoardView struct {
	Category string                 `json:"category"`
	Query    string                 `json:"q"`
	Posts    []postDto.PostResponse `json:"posts"`
}

type PostPageView struct {
	Post         postDto.PostResponse               `json:"post"`
	Comments     []commentDto.CommentResponse       `json:"comments"`
	CommentCount int                                `json:"comment_count"`
	Reactions    reactionDto.ReactionsResponse      `json:"reactions"`
	Attachments  []attachmentDto.AttachmentResponse `json:"attachments"`
	Degraded     []commonDto.SectionError           `json:"degraded"`
}

type ChatPartner struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type InboxView struct {
	Students        []profileDto.PublicProfileResponse `json:"students"`
	IncomingPending []entity.Message                   `json:"incoming_pending"`
	Outgoing        []entity.Message                   `json:"outgoing"`
	OnHold          []entity.Message                   `json:"on_hold"`
	ChatPartners    []ChatPartner                      `json:"chat_partners"`
	Partner         *uuid.UUID                         `json:"partner"`
	Conversation    []entity.Message                   `json:"conversation"`
	Degraded        []commonDto.SectionError           `json:"degraded"`
}

type ProfileView struct {
	Profile *entity.Profile `json:"profile"`
}
