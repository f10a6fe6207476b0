package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"project/database"
	"project/middleware"
	"project/models"
	"project/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// accessTokenTTL is the lifetime of issued access tokens.
const accessTokenTTL = 24 * time.Hour

// startingCoins is every new account's opening balance.
const startingCoins int64 = 2000

type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,pwdmin"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Username must not be empty"})
		return
	}

	db := database.DB

	// Ensure unique username
	var existing models.User
	if err := db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Username already taken"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[register] DB error checking username: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	newUser := models.User{
		Username: req.Username,
		Password: string(hashed),
		Coins:    startingCoins,
	}

	errDuplicate := errors.New("duplicate_username")

	// account row and signup-bonus audit row commit together or not at all
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			// the unique index catches a concurrent duplicate registration
			log.Printf("[register] DB Create user error: %v", err)
			return errDuplicate
		}
		bonus := models.Transaction{
			UserID:          newUser.ID,
			Type:            "bonus",
			Amount:          startingCoins,
			TotalCoinsAfter: newUser.Coins,
			Details:         ptrString("Signup bonus"),
			RefID:           utils.GenerateRefID(newUser.ID),
		}
		return tx.Create(&bonus).Error
	}); err != nil {
		if errors.Is(err, errDuplicate) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Username already taken"})
			return
		}
		log.Printf("[register] DB transaction error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	token, err := utils.GenerateAccessToken(newUser.ID, roleFor(&newUser), accessTokenTTL)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create token"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "User created successfully",
		Data: map[string]interface{}{
			"token":         token,
			"token_expires": time.Now().Add(accessTokenTTL).UTC().Format(time.RFC3339),
			"user": map[string]interface{}{
				"id":                newUser.ID,
				"username":          newUser.Username,
				"coins":             newUser.Coins,
				"is_challenge_host": newUser.IsChallengeHost,
			},
		},
	})
}

func roleFor(u *models.User) string {
	if u.IsChallengeHost {
		return "host"
	}
	return "user"
}

// ptrString returns a pointer to the given string.
func ptrString(s string) *string {
	return &s
}
