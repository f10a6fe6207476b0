package users

import (
	"net/http"
	"time"

	"project/database"
	"project/models"
	"project/utils"
)

// GetTransactionHistory GET /transactions
// Returns the caller's audit window, newest first. The window is hard-capped
// server-side so there is nothing to paginate.
func GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var transactions []models.Transaction
	if err := database.DB.Where("user_id = ?", uid).Order("id DESC").Limit(models.TransactionHistoryLimit).Find(&transactions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	type transactionDTO struct {
		ID              uint   `json:"id"`
		Type            string `json:"type"`
		Amount          int64  `json:"amount"`
		TotalCoinsAfter int64  `json:"total_coins_after"`
		Details         string `json:"details,omitempty"`
		RefID           string `json:"ref_id"`
		Timestamp       string `json:"timestamp"`
	}

	items := make([]transactionDTO, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, transactionDTO{
			ID:              t.ID,
			Type:            t.Type,
			Amount:          t.Amount,
			TotalCoinsAfter: t.TotalCoinsAfter,
			Details:         utils.GetStringValue(t.Details),
			RefID:           t.RefID,
			Timestamp:       t.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: items})
}
