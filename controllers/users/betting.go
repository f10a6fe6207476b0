package users

import (
	"errors"
	"log"
	"net/http"

	"project/database"
	"project/middleware"
	"project/utils"

	"gorm.io/gorm"
)

type BetRequest struct {
	Amount int64 `json:"amount"`
}

// BetPlaceHandler POST /betting/place
// Debits the stake from the caller's balance.
func BetPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var req BetRequest
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

	var remaining int64
	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		u, err := lockUser(tx, uid)
		if err != nil {
			return err
		}
		if err := debitCoins(tx, u, req.Amount, "bet", "Bet placed"); err != nil {
			return err
		}
		remaining = u.Coins
		return nil
	}); err != nil {
		if errors.Is(err, errInsufficientCoins) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient coins"})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		log.Printf("[betting/place] transaction failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Bet failed, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Bet placed",
		Data:    map[string]interface{}{"coins": remaining},
	})
}

// BetRewardHandler POST /betting/reward
// Credits winnings to the caller's balance. A credit needs no balance check.
func BetRewardHandler(w http.ResponseWriter, r *http.Request) {
	var req BetRequest
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

	var remaining int64
	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		u, err := lockUser(tx, uid)
		if err != nil {
			return err
		}
		if err := creditCoins(tx, u, req.Amount, "bet", "Bet reward"); err != nil {
			return err
		}
		remaining = u.Coins
		return nil
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		log.Printf("[betting/reward] transaction failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Reward failed, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Bet reward credited",
		Data:    map[string]interface{}{"coins": remaining},
	})
}
