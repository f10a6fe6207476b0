package users

import (
	"net/http"

	"project/database"
	"project/models"
	"project/utils"
)

// StandingsHandler GET /standings
// Everyone ranked by balance; username breaks ties so the order is total and
// does not depend on store insertion order.
func StandingsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var users []models.User
	if err := database.DB.Select("id, username, coins").Order("coins DESC, username ASC").Find(&users).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	resp := make([]map[string]interface{}, 0, len(users))
	for i, u := range users {
		resp = append(resp, map[string]interface{}{
			"rank":     i + 1,
			"username": u.Username,
			"coins":    u.Coins,
			"you":      u.ID == uid,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: resp})
}
