package models

import (
	"gorm.io/gorm"
)

// LoginTracking records every successful login for the user's history view.
type LoginTracking struct {
	gorm.Model
	UserID    uint   `gorm:"not null;index" json:"userId"`
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
}
