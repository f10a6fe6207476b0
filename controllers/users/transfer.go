package users

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"project/database"
	"project/middleware"
	"project/models"
	"project/utils"

	"gorm.io/gorm"
)

type TransferRequest struct {
	Recipient string `json:"recipient" validate:"required,username"`
	Amount    int64  `json:"amount"`
}

// TransferHandler POST /transfer
// Body: { "recipient": "alice", "amount": 300 }
func TransferHandler(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if req.Amount <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount must be a positive number"})
		return
	}

	var recipient models.User
	if err := database.DB.Where("username = ?", req.Recipient).First(&recipient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Recipient not found"})
			return
		}
		log.Printf("[transfer] DB error fetching recipient %s: %v", req.Recipient, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if recipient.ID == uid {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Cannot transfer to yourself"})
		return
	}

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		// Lock both parties in ascending ID order so two opposite transfers
		// cannot deadlock each other.
		firstID, secondID := uid, recipient.ID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		first, err := lockUser(tx, firstID)
		if err != nil {
			return err
		}
		second, err := lockUser(tx, secondID)
		if err != nil {
			return err
		}
		sender, receiver := first, second
		if sender.ID != uid {
			sender, receiver = second, first
		}

		if err := debitCoins(tx, sender, req.Amount, "transfer", fmt.Sprintf("Transferred to %s", receiver.Username)); err != nil {
			return err
		}
		return creditCoins(tx, receiver, req.Amount, "transfer", fmt.Sprintf("Received from %s", sender.Username))
	}); err != nil {
		if errors.Is(err, errInsufficientCoins) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient coins"})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Recipient not found"})
			return
		}
		log.Printf("[transfer] transaction failed %d -> %s: %v", uid, req.Recipient, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Transfer failed, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Transfer successful",
		Data: map[string]interface{}{
			"recipient": recipient.Username,
			"amount":    req.Amount,
		},
	})
}

// UserListHandler GET /users
// Returns all other users, for picking a transfer recipient.
func UserListHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var users []models.User
	if err := database.DB.Select("id, username").Where("id <> ?", uid).Order("username ASC").Find(&users).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	resp := make([]map[string]interface{}, 0, len(users))
	for _, u := range users {
		resp = append(resp, map[string]interface{}{
			"id":       u.ID,
			"username": u.Username,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: resp})
}
