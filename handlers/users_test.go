package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdesk/backend/models"
)

func roleUpdateHeaders(token string) map[string]string {
	h := bearer(token)
	h["Content-Type"] = "application/json"
	return h
}

func TestUpdateRole(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin@x.com", models.RoleAdmin, "pw")
	target := app.createUser(t, "u@x.com", models.RoleNormal, "pw")

	w := app.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d/role", target.ID),
		jsonBody(t, gin.H{"role": "admin"}), roleUpdateHeaders(app.tokenFor(t, admin)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated, err := app.users.FindByID(target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestUpdateRoleSelfTargetRejected(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin@x.com", models.RoleAdmin, "pw")

	w := app.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d/role", admin.ID),
		jsonBody(t, gin.H{"role": "normal"}), roleUpdateHeaders(app.tokenFor(t, admin)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No mutation happened.
	unchanged, err := app.users.FindByID(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, unchanged.Role)
}

func TestUpdateRoleMissingTarget(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin@x.com", models.RoleAdmin, "pw")

	w := app.do(t, http.MethodPut, "/api/users/9999/role",
		jsonBody(t, gin.H{"role": "admin"}), roleUpdateHeaders(app.tokenFor(t, admin)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRoleInvalidRole(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin@x.com", models.RoleAdmin, "pw")
	target := app.createUser(t, "u@x.com", models.RoleNormal, "pw")

	w := app.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d/role", target.ID),
		jsonBody(t, gin.H{"role": "superuser"}), roleUpdateHeaders(app.tokenFor(t, admin)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsers(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin@x.com", models.RoleAdmin, "pw")
	app.createUser(t, "u@x.com", models.RoleNormal, "pw")

	w := app.do(t, http.MethodGet, "/api/users/", nil, bearer(app.tokenFor(t, admin)))
	require.Equal(t, http.StatusOK, w.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	// Hashes stay out of API responses.
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NotContains(t, w.Body.String(), "$argon2id$")
}

func TestListUsersPagination(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin@x.com", models.RoleAdmin, "pw")
	for i := 0; i < 3; i++ {
		app.createUser(t, fmt.Sprintf("u%d@x.com", i), models.RoleNormal, "pw")
	}

	w := app.do(t, http.MethodGet, "/api/users/?skip=1&limit=2", nil, bearer(app.tokenFor(t, admin)))
	require.Equal(t, http.StatusOK, w.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}
