package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MessageTypeDefault = "메시지"
	MessageTypeChat    = "채팅"
)

// RequestTypes are the kinds of message a student can send as a new request.
var RequestTypes = []string{"과제 제안", "멘토 멘티", "교내 대회", "동아리", "기타 질문"}

func IsRequestType(t string) bool {
	for _, rt := range RequestTypes {
		if rt == t {
			return true
		}
	}
	return false
}

type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Type       string    `gorm:"size:50;not null" json:"type"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Status     string    `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
