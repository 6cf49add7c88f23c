package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown
// username or a wrong password; callers must not tell the two apart.
var ErrInvalidCredentials = errors.New("invalid username or password")

// PasswordCost is the bcrypt cost used for new password hashes.
var PasswordCost = bcrypt.DefaultCost

// User is a field geologist or operator who signs in to the API and owns
// the records they create. The bootstrap admin user (from env) is created
// as a row in this table on startup.
type User struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	FirstName string `gorm:"size:150;not null"`
	LastName  string `gorm:"size:150;not null"`

	// IsAdmin marks users that can provision other users.
	IsAdmin bool `gorm:"default:false"`
}

// DisplayName is the user's full name, or the username when no name is set.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Username
}

// CreateUser hashes password and inserts u.
func CreateUser(ctx context.Context, db *gorm.DB, u *User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return err
	}
	u.ID = 0
	u.PasswordHash = string(hash)

	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return &ConflictError{Message: "A user with that username already exists.", Fields: []string{"username"}}
		}
		return err
	}
	return nil
}

// Authenticate returns the user whose username and password match.
func Authenticate(ctx context.Context, db *gorm.DB, username, password string) (*User, error) {
	var user User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// ListUsers returns every user ordered by username.
func ListUsers(ctx context.Context, db *gorm.DB) ([]User, error) {
	var users []User
	err := db.WithContext(ctx).Order("username").Find(&users).Error
	return users, err
}
