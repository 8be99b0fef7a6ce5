package post

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"anoa.com/kgscp/internal/entity"
	commentDto "anoa.com/kgscp/internal/modules/comment/dto"
	postDto "anoa.com/kgscp/internal/modules/post/dto"
	"github.com/google/uuid"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// objectPath builds the blob path of the i-th attachment of a post.
func objectPath(postID uuid.UUID, i int, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	base = strings.Trim(unsafeFileChars.ReplaceAllString(base, "-"), "-")
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s/%d-%s%s", postID, i, base, ext)
}

// ToResponse converts a summary for viewer, hiding the author of anonymous posts from
// everyone except the author.
func ToResponse(s entity.PostSummary, viewer uuid.UUID, isAdmin bool) postDto.PostResponse {
	own := s.AuthorID == viewer
	resp := postDto.PostResponse{
		ID:             s.ID,
		AuthorName:     s.AuthorName,
		AuthorUsername: s.AuthorUsername,
		Category:       s.Category,
		Title:          s.Title,
		Content:        s.Content,
		IsAnonymous:    s.IsAnonymous,
		CreatedAt:      s.CreatedAt,
		LikesCount:     s.LikesCount,
		DislikesCount:  s.DislikesCount,
		CommentsCount:  s.CommentsCount,
		CanDelete:      own || isAdmin,
	}
	if s.IsAnonymous && !own {
		resp.AuthorName = commentDto.AnonymousName
		resp.AuthorUsername = nil
	} else {
		authorID := s.AuthorID
		resp.AuthorID = &authorID
	}
	return resp
}

func ToResponses(summaries []entity.PostSummary, viewer uuid.UUID, isAdmin bool) []postDto.PostResponse {
	out := make([]postDto.PostResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, ToResponse(s, viewer, isAdmin))
	}
	return out
}
