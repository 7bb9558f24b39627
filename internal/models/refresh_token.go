package models

import "time"

// RefreshToken is a server-side-revocable session record. At most one
// non-revoked, non-expired row exists per user; SessionStore enforces it.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;size:255;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}
