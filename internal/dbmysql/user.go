package dbmysql

import (
	"time"
)

type User struct {
	ID            string  `gorm:"primaryKey;size:36" json:"id"`
	Email         string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash  string  `gorm:"size:255;not null" json:"-"`
	DisplayName   string  `gorm:"size:100;not null" json:"display_name"`
	PhotoURL      *string `gorm:"size:512" json:"photo_url,omitempty"`
	Bio           *string `gorm:"type:text" json:"bio,omitempty"`
	FavoriteSport *string `gorm:"size:50" json:"favorite_sport,omitempty"`
	TotalSteps    int64   `gorm:"default:0" json:"total_steps"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
