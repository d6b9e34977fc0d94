package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction is one executed trade. Rows are append-only: shares is signed,
// positive for a buy and negative for a sell, so a user's holding in a symbol
// is the sum of shares over their rows for that symbol.
type Transaction struct {
	gorm.Model
	UserID       uint      `gorm:"not null;index" json:"userId"`
	Symbol       string    `gorm:"not null;index" json:"symbol"`
	Shares       int       `gorm:"not null" json:"shares"`
	Price        float64   `gorm:"not null" json:"price"`
	TransactedAt time.Time `gorm:"not null;index" json:"transactedAt"`
}
