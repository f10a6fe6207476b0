package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"project/database"
	"project/models"
	"project/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps the shared DB handle for an isolated in-memory sqlite
// database for the duration of one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so every statement sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Investment{},
		&models.Transaction{},
		&models.Challenge{},
		&models.ChallengeCompletion{},
		&models.PasswordReset{},
		&models.Comment{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, coins int64) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "irrelevant", Coins: coins}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createHost(t *testing.T, db *gorm.DB, username string, coins int64) *models.User {
	t.Helper()
	u := createUser(t, db, username, coins)
	require.NoError(t, db.Model(u).Update("is_challenge_host", true).Error)
	u.IsChallengeHost = true
	return u
}

// authedRequest builds a JSON request carrying uid the way AuthMiddleware
// would have put it there.
func authedRequest(t *testing.T, method, target string, uid uint, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), utils.UserIDKey, uid)
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, id).Error)
	return &u
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
