package users

import (
	"errors"

	"project/database"
	"project/models"
	"project/utils"

	"gorm.io/gorm"
)

// Account-ledger core. Every balance mutation runs inside a gorm transaction
// with the user row(s) locked, so the precondition check, the coin delta, the
// audit entry and the history trim commit or roll back as one unit.

var errInsufficientCoins = errors.New("insufficient_coins")

// lockUser fetches the user row under a FOR UPDATE lock (no-op on sqlite).
func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var u models.User
	if err := database.ForUpdate(tx).First(&u, userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// debitCoins subtracts amount from a locked user's balance. The caller must
// hold the row lock. Returns errInsufficientCoins without touching anything
// when the balance cannot cover the debit.
func debitCoins(tx *gorm.DB, u *models.User, amount int64, txType, details string) error {
	if u.Coins < amount {
		return errInsufficientCoins
	}
	u.Coins -= amount
	if err := tx.Model(u).Update("coins", u.Coins).Error; err != nil {
		return err
	}
	return recordEntry(tx, u, txType, amount, details)
}

// creditCoins adds amount to a locked user's balance. Credits need no
// balance precondition.
func creditCoins(tx *gorm.DB, u *models.User, amount int64, txType, details string) error {
	u.Coins += amount
	if err := tx.Model(u).Update("coins", u.Coins).Error; err != nil {
		return err
	}
	return recordEntry(tx, u, txType, amount, details)
}

// recordEntry appends the audit row with the post-mutation balance and trims
// the user's history to the sliding window.
func recordEntry(tx *gorm.DB, u *models.User, txType string, amount int64, details string) error {
	entry := models.Transaction{
		UserID:          u.ID,
		Type:            txType,
		Amount:          amount,
		TotalCoinsAfter: u.Coins,
		RefID:           utils.GenerateRefID(u.ID),
	}
	if details != "" {
		entry.Details = &details
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	return trimHistory(tx, u.ID)
}

// trimHistory drops everything older than the most recent window. The nested
// derived table keeps the statement valid on MySQL, which refuses to delete
// from a table referenced directly in a subquery.
func trimHistory(tx *gorm.DB, userID uint) error {
	return tx.Exec(
		`DELETE FROM transactions WHERE user_id = ? AND id NOT IN (`+
			`SELECT id FROM (SELECT id FROM transactions WHERE user_id = ? ORDER BY id DESC LIMIT ?) keep)`,
		userID, userID, models.TransactionHistoryLimit,
	).Error
}
