// Package store provides persistence for users and events. The GORM
// implementations back the server; the in-memory implementations back
// tests and local runs without a database.
package store

import (
	"github.com/eventdesk/backend/models"
)

// UserStore is the credential store.
type UserStore interface {
	// FindByEmail returns apperr.ErrNotFound when no user matches.
	FindByEmail(email string) (*models.User, error)
	// FindByID returns apperr.ErrNotFound when no user matches.
	FindByID(id uint) (*models.User, error)
	// Create persists a new user. Fails with apperr.ErrDuplicateEmail when
	// the email is already registered.
	Create(user *models.User) error
	// List returns users ordered by id, skipping offset and returning at
	// most limit records.
	List(offset, limit int) ([]models.User, error)
	// UpdateRole sets the role of an existing user. Returns
	// apperr.ErrNotFound when the id does not exist; never creates.
	UpdateRole(id uint, role models.UserRole) error
	// UpdatePasswordHash replaces the stored hash (login-time migration).
	UpdatePasswordHash(id uint, hash string) error
}

// EventStore persists events.
type EventStore interface {
	FindByID(id uint) (*models.Event, error)
	Create(event *models.Event) error
	List(offset, limit int) ([]models.Event, error)
	// Update persists changes to an existing event. Returns
	// apperr.ErrNotFound when the id does not exist.
	Update(event *models.Event) error
	// Delete removes an event, returning apperr.ErrNotFound when absent.
	Delete(id uint) error
	// ImageURLs returns every non-empty stored image URL.
	ImageURLs() ([]string, error)
}
