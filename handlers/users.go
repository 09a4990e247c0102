package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventdesk/backend/apperr"
	"github.com/eventdesk/backend/models"
	"github.com/eventdesk/backend/store"
)

// Users handles the admin-only user management endpoints.
type Users struct {
	users store.UserStore
}

func NewUsers(users store.UserStore) *Users {
	return &Users{users: users}
}

// List handles GET /api/users/
func (h *Users) List(c *gin.Context) {
	offset, limit := pageParams(c)
	users, err := h.users.List(offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

type roleUpdateRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

// UpdateRole handles PUT /api/users/:id/role. Admins cannot change their
// own role; a last accidental self-demotion could leave no admin reachable.
func (h *Users) UpdateRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req roleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	current := CurrentUser(c)
	if current != nil && current.ID == uint(id) {
		respondError(c, apperr.ErrInvalidOperation, "Admins cannot change their own role")
		return
	}

	if err := h.users.UpdateRole(uint(id), req.Role); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			respondError(c, err, "User not found")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	user, err := h.users.FindByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// pageParams reads skip/limit pagination query parameters. The client's
// limit is passed through as given; the default of 100 applies only when
// the parameter is absent or unusable.
func pageParams(c *gin.Context) (offset, limit int) {
	offset, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	return offset, limit
}
