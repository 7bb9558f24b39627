package models

import "time"

// PasswordResetToken moves used=false -> used=true exactly once, or
// expires unconsumed.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;size:255;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Used      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}
