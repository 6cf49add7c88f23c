package db

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

// Session is a signed-in browser or client. Only the SHA-256 of the token
// is stored; the token itself is handed to the client once, at login.
type Session struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time

	TokenHash string `gorm:"uniqueIndex;size:64;not null"`

	UserID uint `gorm:"index;not null"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	ExpiresAt time.Time `gorm:"index;not null"`
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CreateSession starts a session for user valid for ttl and returns the
// bearer token. Expired sessions are purged first.
func CreateSession(ctx context.Context, db *gorm.DB, user *User, ttl time.Duration) (string, error) {
	db = db.WithContext(ctx)
	if err := purgeExpiredSessions(db); err != nil {
		log.Printf("session purge error: %v", err)
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}
	s := &Session{
		TokenHash: hashToken(token),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := db.Omit("User").Create(s).Error; err != nil {
		return "", err
	}
	return token, nil
}

// UserForSession resolves a live session token to its user.
func UserForSession(ctx context.Context, db *gorm.DB, token string) (*User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var s Session
	err := db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", hashToken(token), time.Now().UTC()).
		Preload("User").
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s.User, nil
}

// DeleteSession ends the session for token. Unknown tokens are ignored.
func DeleteSession(ctx context.Context, db *gorm.DB, token string) error {
	return db.WithContext(ctx).Where("token_hash = ?", hashToken(token)).Delete(&Session{}).Error
}
