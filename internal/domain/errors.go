package domain

import (
	"errors"
	"fmt"
	"time"
)

// Input and credential errors
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrRateLimited        = errors.New("too many attempts")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrCredentialExpired  = errors.New("credential expired")
	ErrCredentialMismatch = errors.New("credential does not match")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionIdle     = errors.New("session expired due to inactivity")
)

// Admission errors
var (
	ErrMaintenanceMode  = errors.New("voting is temporarily unavailable for maintenance")
	ErrVotingClosed     = errors.New("voting is currently closed")
	ErrVotingNotStarted = errors.New("voting has not started yet")
	ErrVotingEnded      = errors.New("voting period has ended")
)

// Ballot errors
var (
	ErrEmptyBallot       = errors.New("no votes provided")
	ErrBallotTooLarge    = errors.New("too many votes in single submission")
	ErrDuplicateCategory = errors.New("cannot vote multiple times in the same category")
	ErrAlreadyVoted      = errors.New("votes already submitted and cannot be changed")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownNominee    = errors.New("nominee does not belong to category")
	ErrIPQuotaExceeded   = errors.New("vote limit reached from this network")
)

// RateLimitedError carries the reset time of the exhausted window so the
// boundary can tell the client how long to wait. It matches ErrRateLimited
// under errors.Is.
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, retry after %s", e.ResetAt.Format(time.RFC3339))
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
