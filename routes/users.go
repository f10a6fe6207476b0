package routes

import (
	"net/http"
	"time"

	"project/controllers/auth"
	"project/controllers/users"
	"project/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers every player-facing route on the given router.
func UsersRoutes(api *mux.Router) {
	// Rate limiter login/register: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Rate limiter for authenticated traffic: 120 per IP per minute
	userLimiter := middleware.NewIPRateLimiter(120, time.Minute)

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/logout", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutHandler)))).Methods(http.MethodPost)

	// Forgot Password
	api.Handle("/forgot-password", loginLimiter.Middleware(http.HandlerFunc(auth.ForgotPasswordHandler))).Methods(http.MethodPost)
	api.Handle("/reset-password", loginLimiter.Middleware(http.HandlerFunc(auth.ResetPasswordHandler))).Methods(http.MethodPost)

	// Investments
	api.Handle("/invest", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.InvestHandler)))).Methods(http.MethodPost)
	api.Handle("/portfolio", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.PortfolioHandler)))).Methods(http.MethodGet)

	// Transfers
	api.Handle("/users", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UserListHandler)))).Methods(http.MethodGet)
	api.Handle("/transfer", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.TransferHandler)))).Methods(http.MethodPost)

	// Standings
	api.Handle("/standings", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.StandingsHandler)))).Methods(http.MethodGet)

	// Challenge workflow
	api.Handle("/challenge", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetChallengeHandler)))).Methods(http.MethodGet)
	api.Handle("/challenge", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UpsertChallengeHandler)))).Methods(http.MethodPost)
	api.Handle("/challenge/complete", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CompleteChallengeHandler)))).Methods(http.MethodPost)
	api.Handle("/challenge/verify", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.VerifyChallengeHandler)))).Methods(http.MethodPost)

	// Betting
	api.Handle("/betting/place", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.BetPlaceHandler)))).Methods(http.MethodPost)
	api.Handle("/betting/reward", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.BetRewardHandler)))).Methods(http.MethodPost)

	// Transaction history
	api.Handle("/transactions", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionHistory)))).Methods(http.MethodGet)

	// Comment boards (reading is public, posting is not)
	api.Handle("/comments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateCommentHandler)))).Methods(http.MethodPost)
	api.Handle("/comments/{page_id}", userLimiter.Middleware(http.HandlerFunc(users.ListCommentsHandler))).Methods(http.MethodGet)
}
