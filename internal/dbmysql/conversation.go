package dbmysql

import (
	"time"
)

// Conversation holds exactly two participants, stored sorted so the pair
// itself is the uniqueness key. The id is derived from the sorted pair,
// which makes get-or-create idempotent without a transaction.
type Conversation struct {
	ID           string `gorm:"primaryKey;size:36"`
	ParticipantA string `gorm:"size:36;not null;index"`
	ParticipantB string `gorm:"size:36;not null;index"`

	// Denormalized copy of the most recent message for inbox rendering.
	LastMessageID       *string    `gorm:"size:36"`
	LastMessageText     *string    `gorm:"type:text"`
	LastMessageSenderID *string    `gorm:"size:36"`
	LastMessageAt       *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"index"`
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}
