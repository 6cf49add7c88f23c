package db

import (
	"time"

	"gorm.io/gorm"
)

// purgeExpiredSessions deletes every session whose ExpiresAt is in the past.
func purgeExpiredSessions(db *gorm.DB) error {
	now := time.Now().UTC()
	return db.Where("expires_at <= ?", now).Delete(&Session{}).Error
}
