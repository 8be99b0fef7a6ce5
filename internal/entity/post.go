package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Board categories a post may be filed under.
const (
	CategoryClub        = "동아리"
	CategoryAssignment  = "학교 과제"
	CategorySubject     = "교과목"
	CategoryCompetition = "교내 대회"
	CategoryMentoring   = "멘토 멘티"
	CategoryOther       = "기타"
)

var BoardCategories = []string{
	CategoryClub,
	CategoryAssignment,
	CategorySubject,
	CategoryCompetition,
	CategoryMentoring,
	CategoryOther,
}

func IsBoardCategory(category string) bool {
	for _, c := range BoardCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Post struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Category    string    `gorm:"size:50;not null;index" json:"category"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsAnonymous bool      `gorm:"not null;default:false" json:"is_anonymous"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// PostSummary is the read model of a post with its author and derived counts.
type PostSummary struct {
	Post           `gorm:"embedded"`
	AuthorName     string  `json:"author_name"`
	AuthorUsername *string `json:"author_username"`
	LikesCount     int64   `json:"likes_count"`
	DislikesCount  int64   `json:"dislikes_count"`
	CommentsCount  int64   `json:"comments_count"`
}
