package dbmysql

import (
	"time"
)

// Friend is one direction of a friendship. Adding a friend writes both
// directions; the unique index keeps duplicates from accumulating.
type Friend struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       string    `gorm:"size:36;not null;index:idx_user_friend,unique" json:"user_id"`
	FriendUserID string    `gorm:"size:36;not null;index:idx_user_friend,unique" json:"friend_user_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
