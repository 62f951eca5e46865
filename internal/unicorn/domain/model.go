package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Unicorn is one purchased collectible. Rows are created in a batch when a
// payment is confirmed succeeded, and are never mutated or deleted.
type Unicorn struct {
	ID   snowflake.ID `json:"id" gorm:"primaryKey"`
	Name string       `json:"name" gorm:"type:text;not null"`
	// Color is the purchaser-requested color name; ColorCode is its palette
	// hex code, empty when the name is outside the palette.
	Color     string  `json:"color" gorm:"type:text;not null"`
	ColorCode string  `json:"color_code" gorm:"type:text"`
	X         float64 `json:"x" gorm:"not null"`
	Y         float64 `json:"y" gorm:"not null"`
	Z         float64 `json:"z" gorm:"not null"`
	Rotation  float64 `json:"rotation" gorm:"not null"`
	// IntentID links every unicorn to exactly one succeeded payment.
	IntentID  string    `json:"intent_id" gorm:"type:text;not null;index"`
	SessionID string    `json:"session_id" gorm:"type:text;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

func (Unicorn) TableName() string { return "unicorns" }
