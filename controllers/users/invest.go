package users

import (
	"errors"
	"log"
	"math/rand"
	"net/http"

	"project/database"
	"project/middleware"
	"project/models"
	"project/utils"

	"gorm.io/gorm"
)

type InvestRequest struct {
	Share  string `json:"share" validate:"required,shareok"`
	Amount int64  `json:"amount"`
}

// shareValue simulates fetching a share's current unit price. Swapped out in
// tests for a deterministic function; a real implementation would call a
// stock API.
var shareValue = func(share string) float64 {
	return rand.Float64() * 100
}

// InvestHandler POST /invest
// Body: { "share": "AAPL", "amount": 100 }
func InvestHandler(w http.ResponseWriter, r *http.Request) {
	var req InvestRequest
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

	inv := models.Investment{
		UserID: uid,
		Share:  req.Share,
		Amount: req.Amount,
	}

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		sender, err := lockUser(tx, uid)
		if err != nil {
			return err
		}
		if err := debitCoins(tx, sender, req.Amount, "invest", req.Share); err != nil {
			return err
		}
		inv.Value = utils.RoundFloat(shareValue(req.Share)*float64(req.Amount), 2)
		return tx.Create(&inv).Error
	}); err != nil {
		if errors.Is(err, errInsufficientCoins) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient coins"})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		log.Printf("[invest] transaction failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Investment failed, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Investment successful",
		Data: map[string]interface{}{
			"share":  inv.Share,
			"amount": inv.Amount,
			"value":  inv.Value,
		},
	})
}

// PortfolioHandler GET /portfolio
// Returns the caller's coin balance and all investments, oldest first.
func PortfolioHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		log.Printf("[portfolio] DB error fetching user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var investments []models.Investment
	if err := database.DB.Where("user_id = ?", uid).Order("id ASC").Find(&investments).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"coins":       user.Coins,
			"investments": investments,
		},
	})
}
