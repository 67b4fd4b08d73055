package domain

import (
	"time"

	"github.com/google/uuid"
)

// CredentialKind distinguishes the two login methods.
type CredentialKind string

const (
	CredentialOTP   CredentialKind = "otp"
	CredentialMagic CredentialKind = "magic"
)

// Credential is a short-lived one-time proof of email control. At most one
// outstanding credential exists per (email, kind); issuing a new one replaces
// the prior. The raw secret is never stored: OTP codes are kept as bcrypt
// hashes, magic-link tokens as SHA-256 digests (the digest doubles as the
// lookup key).
type Credential struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email       string         `json:"email" gorm:"index:idx_credentials_email_kind,unique;not null"`
	Kind        CredentialKind `json:"kind" gorm:"index:idx_credentials_email_kind,unique;not null"`
	CodeHash    string         `json:"-"`
	TokenDigest string         `json:"-" gorm:"index"`
	IssuedAt    time.Time      `json:"issuedAt" gorm:"not null"`
	ExpiresAt   time.Time      `json:"expiresAt" gorm:"not null"`
}

func (Credential) TableName() string {
	return "credentials"
}

func (c *Credential) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
