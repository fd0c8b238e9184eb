package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values for the users.role enum. The role is a single explicit field
// resolved once at login; nothing downstream scans claims for role-shaped
// keys.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents the users table. IDs are opaque UUID strings.
type User struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email           string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName       string    `gorm:"size:100" json:"first_name"`
	LastName        string    `gorm:"size:100" json:"last_name"`
	ProfileImageURL string    `gorm:"size:512" json:"profile_image_url,omitempty"`
	Role            string    `gorm:"size:20;not null;default:user" json:"role"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the opaque ID; it is immutable afterwards
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
