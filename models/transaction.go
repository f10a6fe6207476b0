package models

import "time"

// Transaction is one audit entry in a user's bounded history. The ledger
// keeps at most TransactionHistoryLimit rows per user; older rows are
// evicted in the same database transaction that appends a new one.
type Transaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Type            string    `gorm:"size:50;not null" json:"type"`
	Amount          int64     `gorm:"not null" json:"amount"`
	TotalCoinsAfter int64     `gorm:"not null" json:"total_coins_after"`
	Details         *string   `gorm:"type:text" json:"details,omitempty"`
	RefID           string    `gorm:"size:191;not null;uniqueIndex" json:"ref_id"`
	CreatedAt       time.Time `json:"timestamp"`
}

// TransactionHistoryLimit is the per-user sliding window size.
const TransactionHistoryLimit = 50

func (Transaction) TableName() string {
	return "transactions"
}
