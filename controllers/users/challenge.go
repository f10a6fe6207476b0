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
	"gorm.io/gorm/clause"
)

// Challenge workflow. A single challenge record exists at a time; per user
// the state machine is NotClaimed -> Claimed(unverified) -> Verified, with
// Verified terminal.

// requireHost loads the caller and checks the host capability against the
// database rather than trusting the token's role claim.
func requireHost(w http.ResponseWriter, r *http.Request) (uint, bool) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return 0, false
	}
	var user models.User
	if err := database.DB.Select("id, is_challenge_host").First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
			return 0, false
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return 0, false
	}
	if !user.IsChallengeHost {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Only the challenge host can do that"})
		return 0, false
	}
	return uid, true
}

// challengeSingletonID pins the single challenge row to a fixed primary key,
// so concurrent first writes collapse into one upsert instead of racing a
// lookup against an insert.
const challengeSingletonID uint = 1

type ChallengeRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Reward      int64  `json:"reward"`
}

// UpsertChallengeHandler POST /challenge (host only)
// Creates the challenge on first submission, updates it in place afterwards.
func UpsertChallengeHandler(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if _, ok := requireHost(w, r); !ok {
		return
	}
	if req.Reward <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Reward must be a positive number"})
		return
	}

	ch := models.Challenge{
		ID:          challengeSingletonID,
		Title:       req.Title,
		Description: req.Description,
		Reward:      req.Reward,
	}
	if err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "reward", "updated_at"}),
	}).Create(&ch).Error; err != nil {
		log.Printf("[challenge] upsert failed: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Challenge saved", Data: ch})
}

// GetChallengeHandler GET /challenge
// Returns the current challenge and who has claimed/been verified.
func GetChallengeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var ch models.Challenge
	if err := db.Take(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "No challenge available"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var completions []models.ChallengeCompletion
	db.Where("challenge_id = ?", ch.ID).Order("id ASC").Find(&completions)

	userIDs := make([]uint, 0, len(completions))
	for _, c := range completions {
		userIDs = append(userIDs, c.UserID)
	}
	usernames := make(map[uint]string)
	if len(userIDs) > 0 {
		var users []models.User
		db.Select("id, username").Where("id IN ?", userIDs).Find(&users)
		for _, u := range users {
			usernames[u.ID] = u.Username
		}
	}

	completedBy := make([]map[string]interface{}, 0, len(completions))
	for _, c := range completions {
		completedBy = append(completedBy, map[string]interface{}{
			"user_id":  c.UserID,
			"username": usernames[c.UserID],
			"verified": c.Verified,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"title":        ch.Title,
			"description":  ch.Description,
			"reward":       ch.Reward,
			"completed_by": completedBy,
		},
	})
}

// CompleteChallengeHandler POST /challenge/complete
// Records the caller's claim; duplicate claims are rejected.
func CompleteChallengeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var ch models.Challenge
	if err := db.Take(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "No challenge available"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var existing models.ChallengeCompletion
	if err := db.Where("challenge_id = ? AND user_id = ?", ch.ID, uid).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Challenge already claimed"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	claim := models.ChallengeCompletion{ChallengeID: ch.ID, UserID: uid}
	if err := db.Create(&claim).Error; err != nil {
		// the unique index catches a concurrent duplicate claim
		log.Printf("[challenge/complete] create failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Challenge already claimed"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Completion claimed, awaiting verification"})
}

type VerifyRequest struct {
	UserID uint `json:"user_id"`
}

// VerifyChallengeHandler POST /challenge/verify (host only)
// Marks a claim verified and credits the reward to the claimant, atomically.
func VerifyChallengeHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if _, ok := requireHost(w, r); !ok {
		return
	}
	if req.UserID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "user_id is required"})
		return
	}

	db := database.DB
	var ch models.Challenge
	if err := db.Take(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "No challenge available"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	errNotClaimed := errors.New("not_claimed")
	errAlreadyVerified := errors.New("already_verified")

	if err := db.Transaction(func(tx *gorm.DB) error {
		var claim models.ChallengeCompletion
		if err := database.ForUpdate(tx).Where("challenge_id = ? AND user_id = ?", ch.ID, req.UserID).First(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotClaimed
			}
			return err
		}
		if claim.Verified {
			return errAlreadyVerified
		}
		if err := tx.Model(&claim).Update("verified", true).Error; err != nil {
			return err
		}
		target, err := lockUser(tx, req.UserID)
		if err != nil {
			return err
		}
		return creditCoins(tx, target, ch.Reward, "challenge reward", fmt.Sprintf("Challenge reward: %s", ch.Title))
	}); err != nil {
		switch {
		case errors.Is(err, errNotClaimed):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User has not claimed this challenge"})
		case errors.Is(err, errAlreadyVerified):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Completion already verified"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		default:
			log.Printf("[challenge/verify] transaction failed for user %d: %v", req.UserID, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Verification failed, please try again"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Completion verified, reward credited",
		Data:    map[string]interface{}{"user_id": req.UserID, "reward": ch.Reward},
	})
}
