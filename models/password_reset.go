package models

import "time"

// PasswordReset is a single-use, short-lived reset token.
type PasswordReset struct {
	Token     string     `gorm:"primaryKey;size:36" json:"-"`
	UserID    uint       `gorm:"not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"-"`
	UsedAt    *time.Time `json:"-"`
	CreatedAt time.Time  `json:"-"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
