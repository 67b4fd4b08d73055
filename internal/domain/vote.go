package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Vote is immutable once created; there is no update path. The composite
// unique index on (user_id, category_id) is the authoritative guard against
// duplicate votes, independent of any application-level pre-check.
type Vote struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID      `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_category"`
	CategoryID uuid.UUID      `json:"categoryId" gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_category"`
	NomineeID  uuid.UUID      `json:"-" gorm:"type:uuid;not null"`
	IPAddress  string         `json:"-"`
	ClientMeta datatypes.JSON `json:"-"`
	CastAt     time.Time      `json:"castAt" gorm:"autoCreateTime"`
}

func (Vote) TableName() string {
	return "votes"
}

// VoteEntry is one (category, nominee) selection within a submitted ballot.
type VoteEntry struct {
	CategoryID uuid.UUID `json:"categoryId"`
	NomineeID  uuid.UUID `json:"nomineeId"`
}

// VoteConfirmation reports a recorded vote without echoing the chosen
// nominee, so responses and logs never disclose the selection.
type VoteConfirmation struct {
	CategoryID uuid.UUID `json:"categoryId"`
	CastAt     time.Time `json:"castAt"`
}

// ClientMetadata captures request provenance stored alongside each vote.
type ClientMetadata struct {
	UserAgent string `json:"userAgent,omitempty"`
}
