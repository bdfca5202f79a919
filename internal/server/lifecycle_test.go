package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"taskboard/internal/domain/models"
	inmemory "taskboard/repository/inmemory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Drives the board through the real router backed by the in-memory store:
// create, move, list, delete.
func TestTaskLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := inmemory.NewStorage()
	api := NewTaskBoardAPI(store, store, &Config{})

	w := doJSON(t, api, http.MethodPost, "/tasks", validCreateTaskBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, StateBacklog, created.State)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2025-01-01T00:00:00Z", created.DueDate.Format("2006-01-02T15:04:05Z07:00"))

	id := strconv.FormatInt(created.ID, 10)

	w = doJSON(t, api, http.MethodPatch, "/tasks/"+id+"/move-to-inProgress", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Repeating the same transition is idempotent.
	w = doJSON(t, api, http.MethodPatch, "/tasks/"+id+"/move-to-inProgress", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, api, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, StateInProgress, tasks[0].State)
	assert.Equal(t, "Fix bug", tasks[0].Title)
	assert.JSONEq(t, `["alice"]`, string(tasks[0].AssignedTo))

	w = doJSON(t, api, http.MethodDelete, "/tasks/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, api, http.MethodDelete, "/tasks/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, api, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUserLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := inmemory.NewStorage()
	api := NewTaskBoardAPI(store, store, &Config{})

	registration := map[string]any{
		"name":            "Alice",
		"email":           "alice@example.com",
		"password":        "password123",
		"profile_picture": "https://example.com/alice.png",
	}

	w := doJSON(t, api, http.MethodPost, "/register", registration)
	require.Equal(t, http.StatusCreated, w.Code)

	// Re-registering the same email is rejected without a second insert.
	w = doJSON(t, api, http.MethodPost, "/register", registration)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already taken")

	w = doJSON(t, api, http.MethodPost, "/login", map[string]any{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
	assert.NotContains(t, w.Body.String(), "password123")

	w = doJSON(t, api, http.MethodPost, "/login", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, api, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []models.UserSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)
	assert.NotContains(t, w.Body.String(), "password")
}
