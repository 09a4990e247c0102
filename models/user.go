package models

// UserRole enum
type UserRole string

const (
	RoleNormal UserRole = "normal"
	RoleAdmin  UserRole = "admin"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	return r == RoleNormal || r == RoleAdmin
}

// User is the persisted credential record. The password hash is never
// serialized to clients.
type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	Name         string   `gorm:"not null" json:"name"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"default:normal" json:"role"`
}

func (User) TableName() string {
	return "users"
}
