package dbmysql

import (
	"time"
)

// Message is append-only; only the read flag ever changes, false to true.
type Message struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string    `gorm:"index;size:36;not null" json:"conversation_id"`
	SenderID       string    `gorm:"index;size:36;not null" json:"sender_id"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	Read           bool      `gorm:"default:false" json:"read"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
