package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session authorizes subsequent requests as a specific user. The bearer token
// handed to the client is never stored; only its SHA-256 digest is. A session
// dies at its absolute expiry or after the idle timeout since last activity,
// whichever comes first.
type Session struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TokenHash      string    `json:"-" gorm:"uniqueIndex;not null"`
	UserID         uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	Email          string    `json:"email" gorm:"not null"`
	IPAddress      string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt" gorm:"not null"`
	ExpiresAt      time.Time `json:"expiresAt" gorm:"not null"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func (s *Session) Idle(now time.Time, idleTimeout time.Duration) bool {
	return now.Sub(s.LastActivityAt) > idleTimeout
}
