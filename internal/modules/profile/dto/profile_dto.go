package dto

import (
	"time"

	"anoa.com/kgscp/internal/entity"
	"github.com/google/uuid"
)

// Identity holds the verified claims of the bearer token.
type Identity struct {
	ID       uuid.UUID
	Name     string
	Username string
	Email    string
}

// UpdateProfileInput replaces every editable field of the caller's profile.
type UpdateProfileInput struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Username    *string `json:"username" binding:"omitempty,min=3,max=50"`
	Grade       *int    `json:"grade" binding:"omitempty,min=1,max=12"`
	ClassNumber *int    `json:"class_number" binding:"omitempty,min=1,max=30"`
	Bio         *string `json:"bio" binding:"omitempty,max=1000"`
	MBTI        *string `json:"mbti" binding:"omitempty,len=4"`
	TOEFL       *string `json:"toefl" binding:"omitempty,max=20"`
	SAT         *string `json:"sat" binding:"omitempty,max=20"`
	AP          *string `json:"ap"`
	OtherScores *string `json:"other_scores"`
	GPA         *string `json:"gpa" binding:"omitempty,max=20"`
	BestSubject *string `json:"best_subject" binding:"omitempty,max=100"`
}

type AddInterestRequest struct {
	Interest string `json:"interest" binding:"required,max=50"`
}

type DirectoryFilter struct {
	Grade  *int   `form:"grade" binding:"omitempty,min=1,max=12"`
	Search string `form:"search"`
}

// PublicProfileResponse is what other students see in the directory.
type PublicProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    *string   `json:"username"`
	Name        string    `json:"name"`
	Grade       *int      `json:"grade"`
	ClassNumber *int      `json:"class_number"`
	Bio         *string   `json:"bio"`
	Interests   []string  `json:"interests"`
	MBTI        *string   `json:"mbti"`
	TOEFL       *string   `json:"toefl"`
	SAT         *string   `json:"sat"`
	AP          *string   `json:"ap"`
	OtherScores *string   `json:"other_scores"`
	GPA         *string   `json:"gpa"`
	BestSubject *string   `json:"best_subject"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToPublic(p entity.Profile) PublicProfileResponse {
	interests := []string(p.Interests)
	if interests == nil {
		interests = []string{}
	}
	return PublicProfileResponse{
		ID:          p.ID,
		Username:    p.Username,
		Name:        p.Name,
		Grade:       p.Grade,
		ClassNumber: p.ClassNumber,
		Bio:         p.Bio,
		Interests:   interests,
		MBTI:        p.MBTI,
		TOEFL:       p.TOEFL,
		SAT:         p.SAT,
		AP:          p.AP,
		OtherScores: p.OtherScores,
		GPA:         p.GPA,
		BestSubject: p.BestSubject,
		CreatedAt:   p.CreatedAt,
	}
}

func ToPublicList(profiles []entity.Profile) []PublicProfileResponse {
	out := make([]PublicProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, ToPublic(p))
	}
	return out
}
