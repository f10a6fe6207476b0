package auth

import (
	"log"
	"net/http"
	"strings"
	"time"

	"project/utils"
)

// LogoutHandler POST /logout
// Revokes the presented token's jti for the remainder of its lifetime.
// Without a revocation store this is best effort and the token simply
// ages out at its exp.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Missing or malformed Authorization header"})
		return
	}

	_, claims, err := utils.ValidateAccessToken(parts[1])
	if err != nil {
		// an already-expired token needs no revocation
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
		return
	}

	jti, _ := claims["jti"].(string)
	ttl := accessTokenTTL
	if expRaw, ok := claims["exp"].(float64); ok {
		if remaining := time.Until(time.Unix(int64(expRaw), 0)); remaining > 0 {
			ttl = remaining
		}
	}

	if jti != "" {
		if err := utils.RevokeJTI(jti, ttl); err != nil {
			log.Printf("[logout] revoke failed: %v", err)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}
