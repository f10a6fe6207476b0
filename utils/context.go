package utils

import "net/http"

// GetUserID returns the authenticated user id injected by the auth middleware.
func GetUserID(r *http.Request) (uint, bool) {
	v := r.Context().Value(UserIDKey)
	id, ok := v.(uint)
	return id, ok
}

// GetUserRole returns the role claim carried by the access token.
func GetUserRole(r *http.Request) string {
	if s, ok := r.Context().Value(UserRoleKey).(string); ok {
		return s
	}
	return ""
}
