package models

import "time"

// Challenge is the single host-issued challenge. There is at most one row;
// the host edits it in place rather than creating new ones.
type Challenge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Reward      int64     `gorm:"not null" json:"reward"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeCompletion tracks one user's claim against the challenge.
// The composite unique index makes duplicate claims impossible even
// under concurrent requests.
type ChallengeCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_challenge_user" json:"challenge_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_challenge_user" json:"user_id"`
	Verified    bool      `gorm:"not null;default:false" json:"verified"`
	ClaimedAt   time.Time `gorm:"autoCreateTime" json:"claimed_at"`
}

func (ChallengeCompletion) TableName() string {
	return "challenge_completions"
}
