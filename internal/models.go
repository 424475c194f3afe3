package internal

import (
	"time"

	"github.com/google/uuid"
)

// Unique index names. The store reports violations by these names and the
// services map them onto conflict errors.
const (
	IndexURLShortCode = "idx_urls_short_code"
	IndexUserEmail    = "idx_users_email"
	IndexUserUsername = "idx_users_username"
)

// URL is a short link. ShortCode stays nil until the row has an id, and Clicks
// only moves forward when the reconciler folds the cached counter into it.
type URL struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	LongURL   string     `gorm:"type:varchar(2083);not null"`
	ShortCode *string    `gorm:"type:varchar(10);uniqueIndex:idx_urls_short_code"`
	Clicks    int64      `gorm:"not null;default:0"`
	CreatedAt time.Time
}

func (u URL) Code() string {
	if u.ShortCode == nil {
		return ""
	}
	return *u.ShortCode
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email    string    `gorm:"type:varchar(320);not null;uniqueIndex:idx_users_email"`
	Username string    `gorm:"type:varchar(150);not null;uniqueIndex:idx_users_username"`
	Password string    `gorm:"type:varchar(255);not null"`
}
