package models

import "gorm.io/gorm"

// Role names seeded at startup.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is the primary user model.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Role     string `gorm:"size:50;default:ROLE_USER" json:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
