package models

import (
	"time"

	"gorm.io/gorm"
)

// Session ties an issued token to a logged-in user. Logout deletes the row,
// which invalidates the token even before it expires.
type Session struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"userId"`
	TokenID   string    `gorm:"unique;not null" json:"tokenId"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
}
