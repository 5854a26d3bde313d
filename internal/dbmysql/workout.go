package dbmysql

import (
	"time"
)

type Workout struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36;not null" json:"user_id"`
	UserName  string    `gorm:"size:100" json:"user_name"`
	UserPhoto *string   `gorm:"size:512" json:"user_photo,omitempty"`
	Date      time.Time `gorm:"index" json:"date"`
	Duration  int       `json:"duration"` // minutes
	Notes     string    `gorm:"type:text" json:"notes"`
	Feeling   int       `json:"feeling"` // 1..5
	PhotoURL  *string   `gorm:"size:512" json:"photo_url,omitempty"`
	PhotoID   *string   `gorm:"size:36" json:"-"` // media storage id, for cleanup on delete
	Type      string    `gorm:"size:20;not null" json:"type"` // musculation, running, other
	Distance  *float64  `json:"distance,omitempty"`           // km, running only

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// WorkoutLike is like-set membership as a row, so a toggle is a single
// atomic insert or delete instead of a read-modify-write on an array.
type WorkoutLike struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	WorkoutID string    `gorm:"size:36;not null;index:idx_workout_user,unique"`
	UserID    string    `gorm:"size:36;not null;index:idx_workout_user,unique"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// WorkoutComment is one row per comment; deletion is an atomic delete by
// id rather than filter-and-write-back.
type WorkoutComment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	WorkoutID   string    `gorm:"size:36;not null;index" json:"workout_id"`
	AuthorID    string    `gorm:"size:36;not null" json:"author_id"`
	AuthorName  string    `gorm:"size:100" json:"author_name"`
	AuthorPhoto *string   `gorm:"size:512" json:"author_photo,omitempty"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
