package models

import "time"

type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Username        string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password        string    `gorm:"size:255;not null" json:"-"`
	Coins           int64     `gorm:"not null;default:2000" json:"coins"`
	IsChallengeHost bool      `gorm:"not null;default:false" json:"is_challenge_host"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
