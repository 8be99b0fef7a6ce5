package comment

import (
	commentDto "anoa.com/kgscp/internal/modules/comment/dto"
	"github.com/google/uuid"
)

// ToResponse converts a comment forest for viewer, hiding anonymous authors from
// everyone except the author.
func ToResponse(nodes []*Node, viewer uuid.UUID, isAdmin bool) []commentDto.CommentResponse {
	out := make([]commentDto.CommentResponse, 0, len(nodes))
	for _, n := range nodes {
		own := n.AuthorID == viewer
		resp := commentDto.CommentResponse{
			ID:              n.ID,
			ParentCommentID: n.ParentCommentID,
			AuthorName:      n.AuthorName,
			Content:         n.Content,
			IsAnonymous:     n.IsAnonymous,
			CreatedAt:       n.CreatedAt,
			CanDelete:       own || isAdmin,
			Children:        ToResponse(n.Children, viewer, isAdmin),
		}
		if n.IsAnonymous && !own {
			resp.AuthorName = commentDto.AnonymousName
		} else {
			authorID := n.AuthorID
			resp.AuthorID = &authorID
		}
		out = append(out, resp)
	}
	return out
}
