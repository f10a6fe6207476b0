package models

import "time"

// Investment rows are append-only: once bought they are never edited or
// removed, only listed back on the portfolio view.
type Investment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Share     string    `gorm:"size:20;not null" json:"share"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Value     float64   `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func (Investment) TableName() string {
	return "investments"
}
