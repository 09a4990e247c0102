package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/eventdesk/backend/models"
	"github.com/eventdesk/backend/security"
	"github.com/eventdesk/backend/store"
)

type testApp struct {
	router    *gin.Engine
	users     *store.MemoryUserStore
	events    *store.MemoryEventStore
	hasher    *security.Hasher
	tokens    *security.TokenManager
	staticDir string
}

// newTestApp wires the handlers onto in-memory stores with the same
// routing layout as main.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := store.NewMemoryUserStore()
	events := store.NewMemoryEventStore()
	hasher := security.NewHasher()
	tokens, err := security.NewTokenManager("test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	staticDir := t.TempDir()

	auth := NewAuth(users, hasher, tokens)
	userHandler := NewUsers(users)
	eventHandler := NewEvents(events, nil, "http://127.0.0.1:8000", staticDir)

	router := gin.New()
	router.POST("/signup", auth.Signup)
	router.POST("/login", auth.Login)

	router.GET("/events/", eventHandler.List)
	adminEvents := router.Group("/events", auth.RequireUser(), RequireRole(models.RoleAdmin))
	adminEvents.POST("/", eventHandler.Create)
	adminEvents.PUT("/:id", eventHandler.Update)
	adminEvents.DELETE("/:id", eventHandler.Delete)

	api := router.Group("/api")
	adminUsers := api.Group("/users", auth.RequireUser(), RequireRole(models.RoleAdmin))
	adminUsers.GET("/", userHandler.List)
	adminUsers.PUT("/:id/role", userHandler.UpdateRole)

	return &testApp{
		router:    router,
		users:     users,
		events:    events,
		hasher:    hasher,
		tokens:    tokens,
		staticDir: staticDir,
	}
}

// createUser inserts a user directly into the store.
func (a *testApp) createUser(t *testing.T, email string, role models.UserRole, password string) *models.User {
	t.Helper()
	hash, err := a.hasher.Hash(password)
	require.NoError(t, err)
	user := models.User{Email: email, Name: "Test User", PasswordHash: hash, Role: role}
	require.NoError(t, a.users.Create(&user))
	return &user
}

// tokenFor issues a valid token for the user.
func (a *testApp) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := a.tokens.Issue(user.Email, string(user.Role), time.Hour)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
