// Package handlers contains the gin request handlers and the auth
// middleware gating them.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eventdesk/backend/apperr"
	"github.com/eventdesk/backend/models"
	"github.com/eventdesk/backend/security"
	"github.com/eventdesk/backend/store"
)

const currentUserKey = "currentUser"

// Auth handles signup, login and the middleware resolving the current user.
type Auth struct {
	users  store.UserStore
	hasher *security.Hasher
	tokens *security.TokenManager
}

func NewAuth(users store.UserStore, hasher *security.Hasher, tokens *security.TokenManager) *Auth {
	return &Auth{users: users, hasher: hasher, tokens: tokens}
}

type SignupRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required"`
	Role     models.UserRole `json:"role"`
}

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Signup handles POST /signup
func (a *Auth) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleNormal
	}
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := a.users.Create(&user); err != nil {
		if errors.Is(err, apperr.ErrDuplicateEmail) {
			respondError(c, err, "Email already registered")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Login handles POST /login. Credentials arrive as an OAuth2 password form:
// username (the email) and password.
func (a *Auth) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	// Unknown email and wrong password are deliberately indistinguishable.
	user, err := a.users.FindByEmail(username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			a.invalidCredentials(c)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if !a.hasher.Verify(password, user.PasswordHash) {
		a.invalidCredentials(c)
		return
	}

	// Lazy migration: the plaintext just verified, so re-hash with the
	// preferred scheme if the stored hash is from a deprecated one. A
	// failed migration is logged, never surfaced; the login itself is fine.
	if a.hasher.NeedsUpgrade(user.PasswordHash) {
		if err := a.migratePasswordHash(user, password); err != nil {
			logrus.WithError(err).WithField("user", user.ID).Warn("password hash migration failed")
		}
	}

	token, err := a.tokens.Issue(user.Email, string(user.Role), a.tokens.TTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (a *Auth) migratePasswordHash(user *models.User, password string) error {
	newHash, err := a.hasher.Hash(password)
	if err != nil {
		return err
	}
	return a.users.UpdatePasswordHash(user.ID, newHash)
}

func (a *Auth) invalidCredentials(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	respondError(c, apperr.ErrInvalidCredentials, "Incorrect email or password")
}

// RequireUser resolves the current user from the bearer token and loads it
// into the request context. A valid token whose subject no longer exists
// (user deleted after issuance) is rejected the same way as a bad token.
func (a *Auth) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, apperr.ErrUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, apperr.ErrUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := a.tokens.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c, err, "Could not validate credentials")
			return
		}

		user, err := a.users.FindByEmail(claims.Subject)
		if err != nil {
			abortUnauthorized(c, apperr.ErrInvalidToken, "Could not validate credentials")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole enforces an exact role match on the resolved current user.
// Roles are not hierarchical: admin does not satisfy a normal-only check.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c, apperr.ErrUnauthorized, "Could not validate credentials")
			return
		}
		if user.Role != role {
			abortError(c, apperr.ErrForbidden, "Not authorized to perform this action")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by RequireUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func abortUnauthorized(c *gin.Context, err error, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	abortError(c, err, message)
}

// abortError aborts the request chain with the status mapped from the
// error taxonomy.
func abortError(c *gin.Context, err error, message string) {
	c.AbortWithStatusJSON(apperr.Status(err), gin.H{"error": message})
}

// respondError writes an error response with the status mapped from the
// error taxonomy.
func respondError(c *gin.Context, err error, message string) {
	c.JSON(apperr.Status(err), gin.H{"error": message})
}
