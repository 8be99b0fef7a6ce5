package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// NormalizeRole maps anything other than admin to user.
func NormalizeRole(role string) string {
	if role == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Profile shares its id with the identity principal.
type Profile struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Username    *string                     `gorm:"size:50;uniqueIndex" json:"username"`
	Name        string                      `gorm:"size:100;not null" json:"name"`
	Grade       *int                        `gorm:"index" json:"grade"`
	ClassNumber *int                        `json:"class_number"`
	Bio         *string                     `gorm:"type:text" json:"bio"`
	MBTI        *string                     `gorm:"column:mbti;size:4" json:"mbti"`
	TOEFL       *string                     `gorm:"column:toefl;size:20" json:"toefl"`
	SAT         *string                     `gorm:"column:sat;size:20" json:"sat"`
	AP          *string                     `gorm:"column:ap;type:text" json:"ap"`
	OtherScores *string                     `gorm:"type:text" json:"other_scores"`
	GPA         *string                     `gorm:"column:gpa;size:20" json:"gpa"`
	BestSubject *string                     `gorm:"size:100" json:"best_subject"`
	Interests   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"interests"`
	Role        string                      `gorm:"size:20;not null;default:user" json:"role"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

// Interests wraps a string slice as the jsonb column value.
func Interests(values []string) datatypes.JSONSlice[string] {
	if values == nil {
		values = []string{}
	}
	return datatypes.JSONSlice[string](values)
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
