package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"project/database"
	"project/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.PasswordReset{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
	return db
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterCreatesUserWithSignupBonus(t *testing.T) {
	db := setupTestDB(t)

	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "hunter22",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	userData := data["user"].(map[string]interface{})
	assert.Equal(t, "alice", userData["username"])
	assert.Equal(t, float64(2000), userData["coins"])

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	assert.Equal(t, int64(2000), user.Coins)
	assert.NotEqual(t, "hunter22", user.Password)

	var bonus models.Transaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, "bonus").First(&bonus).Error)
	assert.Equal(t, int64(2000), bonus.Amount)
	assert.Equal(t, int64(2000), bonus.TotalCoinsAfter)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	setupTestDB(t)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		rec := httptest.NewRecorder()
		RegisterHandler(rec, jsonRequest(t, http.MethodPost, "/register", map[string]string{
			"username": "alice",
			"password": "hunter22",
		}))
		require.Equal(t, want, rec.Code, "attempt %d: %s", i+1, rec.Body.String())
	}
}

func TestRegisterConflictLeavesNoPartialRows(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.User{Username: "taken", Password: "irrelevant", Coins: 2000}).Error)

	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "taken",
		"password": "hunter22",
	}))
	require.Equal(t, http.StatusConflict, rec.Code)

	var users, audits int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Transaction{}).Count(&audits).Error)
	assert.Equal(t, int64(1), users)
	assert.Zero(t, audits)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	setupTestDB(t)

	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "abc",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSuccessAndWrongPassword(t *testing.T) {
	setupTestDB(t)

	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "login-bob",
		"password": "hunter22",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	LoginHandler(rec, jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "login-bob",
		"password": "hunter22",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	rec = httptest.NewRecorder()
	LoginHandler(rec, jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "login-bob",
		"password": "wrong-password",
	}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", decodeBody(t, rec)["message"])
}

func TestLoginUnknownUserSameResponse(t *testing.T) {
	setupTestDB(t)

	rec := httptest.NewRecorder()
	LoginHandler(rec, jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "login-ghost",
		"password": "whatever99",
	}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", decodeBody(t, rec)["message"])
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)

	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "reset-carol",
		"password": "oldpass1",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	ForgotPasswordHandler(rec, jsonRequest(t, http.MethodPost, "/forgot-password", map[string]string{
		"username": "reset-carol",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	// same uniform answer for an unknown account
	rec = httptest.NewRecorder()
	ForgotPasswordHandler(rec, jsonRequest(t, http.MethodPost, "/forgot-password", map[string]string{
		"username": "reset-ghost",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	var reset models.PasswordReset
	require.NoError(t, db.Take(&reset).Error)

	rec = httptest.NewRecorder()
	ResetPasswordHandler(rec, jsonRequest(t, http.MethodPost, "/reset-password", map[string]string{
		"token":    reset.Token,
		"password": "newpass1",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// old password no longer works, new one does
	rec = httptest.NewRecorder()
	LoginHandler(rec, jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "reset-carol",
		"password": "oldpass1",
	}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	LoginHandler(rec, jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "reset-carol",
		"password": "newpass1",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the token is single use
	rec = httptest.NewRecorder()
	ResetPasswordHandler(rec, jsonRequest(t, http.MethodPost, "/reset-password", map[string]string{
		"token":    reset.Token,
		"password": "another1",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetPasswordBadToken(t *testing.T) {
	setupTestDB(t)

	rec := httptest.NewRecorder()
	ResetPasswordHandler(rec, jsonRequest(t, http.MethodPost, "/reset-password", map[string]string{
		"token":    "not-a-real-token",
		"password": "newpass1",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired reset token", decodeBody(t, rec)["message"])
}
