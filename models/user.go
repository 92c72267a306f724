package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered end user (not an administrator; admins authenticate
// against environment credentials and never live in this table).
type User struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName    string        `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string        `gorm:"type:varchar(100);not null" json:"last_name"`
	Username     string        `gorm:"type:varchar(60);uniqueIndex;not null" json:"username"`
	Email        string        `gorm:"type:varchar(200);uniqueIndex;not null" json:"email"`
	PasswordHash string        `gorm:"not null" json:"-"`
	IsActive     bool          `gorm:"not null;default:true" json:"-"`
	LastLogin    *time.Time    `json:"-"`
	Favorites    []Scholarship `gorm:"many2many:user_favorites;" json:"-"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"-"`
}

// SafeUser is the subset of User returned to clients.
type SafeUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Safe strips credentials and internal flags.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Username  string `json:"username" binding:"required,min=3,max=60"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the payload of POST /auth/login. The identifier may be an
// email address or a username.
type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// AdminLoginRequest is the payload of POST /auth/admin/login.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
