package models

import "time"

// Comment is one entry on a page's comment board. Boards are keyed by an
// opaque page id supplied by the client.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PageID    string    `gorm:"size:100;not null;index" json:"page_id"`
	Username  string    `gorm:"size:100;not null" json:"username"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
