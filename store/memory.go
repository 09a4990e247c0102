package store

import (
	"sync"

	"github.com/eventdesk/backend/apperr"
	"github.com/eventdesk/backend/models"
)

// MemoryUserStore is an in-memory UserStore for tests and local runs.
type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1, users: make(map[uint]models.User)}
}

func (s *MemoryUserStore) FindByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *MemoryUserStore) FindByID(id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	user := u
	return &user, nil
}

func (s *MemoryUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return apperr.ErrDuplicateEmail
		}
	}
	user.ID = s.nextID
	s.nextID++
	if user.Role == "" {
		user.Role = models.RoleNormal
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) List(offset, limit int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for id := uint(1); id < s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return paginate(users, offset, limit), nil
}

func (s *MemoryUserStore) UpdateRole(id uint, role models.UserRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.ErrNotFound
	}
	u.Role = role
	s.users[id] = u
	return nil
}

func (s *MemoryUserStore) UpdatePasswordHash(id uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.ErrNotFound
	}
	u.PasswordHash = hash
	s.users[id] = u
	return nil
}

// MemoryEventStore is an in-memory EventStore for tests and local runs.
type MemoryEventStore struct {
	mu     sync.RWMutex
	nextID uint
	events map[uint]models.Event
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{nextID: 1, events: make(map[uint]models.Event)}
}

func (s *MemoryEventStore) FindByID(id uint) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	event := e
	return &event, nil
}

func (s *MemoryEventStore) Create(event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.nextID
	s.nextID++
	s.events[event.ID] = *event
	return nil
}

func (s *MemoryEventStore) List(offset, limit int) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]models.Event, 0, len(s.events))
	for id := uint(1); id < s.nextID; id++ {
		if e, ok := s.events[id]; ok {
			events = append(events, e)
		}
	}
	return paginate(events, offset, limit), nil
}

func (s *MemoryEventStore) Update(event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; !ok {
		return apperr.ErrNotFound
	}
	s.events[event.ID] = *event
	return nil
}

func (s *MemoryEventStore) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *MemoryEventStore) ImageURLs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var urls []string
	for _, e := range s.events {
		if e.ImageURL != nil && *e.ImageURL != "" {
			urls = append(urls, *e.ImageURL)
		}
	}
	return urls, nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
