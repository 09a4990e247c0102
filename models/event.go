package models

import (
	"time"
)

// Event model. Date and time are kept as opaque strings, matching what
// clients submit in the event form.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Date        string    `gorm:"not null" json:"date"`
	Time        string    `gorm:"not null" json:"time"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}
