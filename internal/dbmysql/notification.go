package dbmysql

import (
	"time"
)

// Notification targets exactly one user. The payload columns are keyed by
// Kind: like/comment carry WorkoutID, message carries ConversationID.
type Notification struct {
	ID             string  `gorm:"primaryKey;size:36"`
	UserID         string  `gorm:"not null;index;size:36"`
	Kind           string  `gorm:"not null;size:30"`
	Title          string  `gorm:"not null;size:255"`
	Body           string  `gorm:"not null;type:text"`
	ActorID        *string `gorm:"size:36"`
	WorkoutID      *string `gorm:"size:36"`
	ConversationID *string `gorm:"size:36"`

	Read        bool       `gorm:"default:false"`
	ReadAt      *time.Time
	Status      string     `gorm:"default:'sent';size:20"`
	ScheduledAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
