package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DirectionOutbound = "outbound"
	DirectionInbound  = "inbound"
)

type Message struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       *uuid.UUID `gorm:"type:uuid" json:"sender_id"`
	Direction      string     `gorm:"size:10;not null" json:"direction"`
	Subject        string     `gorm:"size:255" json:"subject"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	EmailedAt      *time.Time `json:"emailed_at"`
	ReadAt         *time.Time `json:"read_at"`

	Conversation Conversation `gorm:"foreignkey:ConversationID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
