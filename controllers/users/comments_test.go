package users

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"project/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listCommentsVia(t *testing.T, pageID string) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/comments/{page_id}", ListCommentsHandler).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comments/"+pageID, nil))
	return rec
}

func TestCommentPostAndListPerPage(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice", 2000)
	bob := createUser(t, db, "bob", 2000)

	for _, c := range []struct {
		uid  uint
		page string
		text string
	}{
		{alice.ID, "standings", "nice run"},
		{bob.ID, "standings", "rematch tomorrow"},
		{alice.ID, "challenge", "claimed it first"},
	} {
		rec := httptest.NewRecorder()
		CreateCommentHandler(rec, authedRequest(t, http.MethodPost, "/comments", c.uid, map[string]interface{}{
			"page_id": c.page,
			"text":    c.text,
		}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := listCommentsVia(t, "standings")
	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeBody(t, rec)["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "alice", first["username"])
	assert.Equal(t, "nice run", first["text"])
	second := data[1].(map[string]interface{})
	assert.Equal(t, "bob", second["username"])

	rec = listCommentsVia(t, "challenge")
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, data, 1)
}

func TestCommentAttributedToAccountNotBody(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice", 2000)

	// a client-supplied username field is rejected by the strict decoder
	rec := httptest.NewRecorder()
	CreateCommentHandler(rec, authedRequest(t, http.MethodPost, "/comments", alice.ID, map[string]interface{}{
		"page_id":  "standings",
		"text":     "hello",
		"username": "mallory",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	CreateCommentHandler(rec, authedRequest(t, http.MethodPost, "/comments", alice.ID, map[string]interface{}{
		"page_id": "standings",
		"text":    "hello",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var c models.Comment
	require.NoError(t, db.Take(&c).Error)
	assert.Equal(t, "alice", c.Username)
}

func TestCommentValidation(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice", 2000)

	cases := []map[string]interface{}{
		{"page_id": "", "text": "hello"},
		{"page_id": "bad page!", "text": "hello"},
		{"page_id": "standings", "text": "   "},
		{"page_id": "standings", "text": strings.Repeat("x", commentMaxLen+1)},
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		CreateCommentHandler(rec, authedRequest(t, http.MethodPost, "/comments", alice.ID, body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %v", body)
	}
	assert.Zero(t, countRows(t, db, &models.Comment{}, "1 = 1"))
}

func TestCommentsEmptyBoard(t *testing.T) {
	setupTestDB(t)

	rec := listCommentsVia(t, "untouched-page")
	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeBody(t, rec)["data"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, data)
}
