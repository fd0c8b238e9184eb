package auth

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(user *User) error
	FindByEmail(email string) (*User, error)
	FindByID(userID string) (User, error)
	FindByIDs(userIDs []string) ([]User, error)
	CountUsers() (int64, error)
	Update(user *User) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

// Create a new user
func (r *repository) Create(user *User) error {
	return r.db.Create(user).Error
}

// Find user by email (used in login)
func (r *repository) FindByEmail(email string) (*User, error) {
	var u User
	err := r.db.Where("email = ?", email).First(&u).Error
	return &u, err
}

// Find user by ID
func (r *repository) FindByID(userID string) (User, error) {
	var user User
	err := r.db.First(&user, "id = ?", userID).Error
	return user, err
}

// FindByIDs resolves a batch of user IDs, used to attach names to
// availability conflict lists
func (r *repository) FindByIDs(userIDs []string) ([]User, error) {
	var users []User
	if len(userIDs) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", userIDs).Find(&users).Error
	return users, err
}

func (r *repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&User{}).Count(&count).Error
	return count, err
}

func (r *repository) Update(user *User) error {
	return r.db.Save(user).Error
}
