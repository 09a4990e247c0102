package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eventdesk/backend/apperr"
	"github.com/eventdesk/backend/models"
)

// GormUserStore implements UserStore on a GORM connection.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) Create(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *GormUserStore) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormUserStore) UpdateRole(id uint, role models.UserRole) error {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *GormUserStore) UpdatePasswordHash(id uint, hash string) error {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// GormEventStore implements EventStore on a GORM connection.
type GormEventStore struct {
	db *gorm.DB
}

func NewGormEventStore(db *gorm.DB) *GormEventStore {
	return &GormEventStore{db: db}
}

func (s *GormEventStore) FindByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (s *GormEventStore) Create(event *models.Event) error {
	return s.db.Create(event).Error
}

func (s *GormEventStore) List(offset, limit int) ([]models.Event, error) {
	var events []models.Event
	if err := s.db.Order("id").Offset(offset).Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *GormEventStore) Update(event *models.Event) error {
	result := s.db.Model(&models.Event{}).Where("id = ?", event.ID).Updates(map[string]interface{}{
		"title":       event.Title,
		"description": event.Description,
		"date":        event.Date,
		"time":        event.Time,
		"image_url":   event.ImageURL,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *GormEventStore) Delete(id uint) error {
	result := s.db.Delete(&models.Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *GormEventStore) ImageURLs() ([]string, error) {
	var urls []string
	err := s.db.Model(&models.Event{}).
		Where("image_url IS NOT NULL AND image_url != ''").
		Pluck("image_url", &urls).Error
	if err != nil {
		return nil, err
	}
	return urls, nil
}
