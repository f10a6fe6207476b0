package users

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"project/database"
	"project/middleware"
	"project/models"
	"project/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const commentMaxLen = 500

type CommentRequest struct {
	PageID string `json:"page_id" validate:"required,pageid"`
	Text   string `json:"text" validate:"required"`
}

// CreateCommentHandler POST /comments
// The comment is attributed to the caller's account name, not a
// client-supplied one.
func CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Comment text must not be empty"})
		return
	}
	if len(req.Text) > commentMaxLen {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Comment text is too long"})
		return
	}

	var user models.User
	if err := database.DB.Select("id, username").First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	comment := models.Comment{
		PageID:   req.PageID,
		Username: user.Username,
		Text:     req.Text,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		log.Printf("[comments] create failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Comment posted", Data: comment})
}

// ListCommentsHandler GET /comments/{page_id}
// Oldest first, matching the order they were posted.
func ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	pageID := mux.Vars(r)["page_id"]
	if pageID == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "page_id is required"})
		return
	}

	comments := make([]models.Comment, 0)
	if err := database.DB.Where("page_id = ?", pageID).Order("id ASC").Find(&comments).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: comments})
}
