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

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	if locked, remaining := middleware.IsAccountLocked(req.Username); locked {
		retry := int(remaining.Seconds())
		if retry < 1 {
			retry = 1
		}
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: "Too many failed attempts, account temporarily locked",
			Data:    map[string]interface{}{"retry_after_seconds": retry},
		})
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same response as a wrong password so usernames cannot be probed
			middleware.RecordFailedLogin(req.Username)
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid username or password"})
			return
		}
		log.Printf("[login] DB error for %q: %v", req.Username, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		middleware.RecordFailedLogin(req.Username)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid username or password"})
		return
	}

	middleware.ResetFailedLogin(req.Username)

	token, err := utils.GenerateAccessToken(user.ID, roleFor(&user), accessTokenTTL)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create token"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":         token,
			"token_expires": time.Now().Add(accessTokenTTL).UTC().Format(time.RFC3339),
			"user": map[string]interface{}{
				"id":                user.ID,
				"username":          user.Username,
				"coins":             user.Coins,
				"is_challenge_host": user.IsChallengeHost,
			},
		},
	})
}
