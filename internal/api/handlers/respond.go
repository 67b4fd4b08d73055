package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/mari/awards-voting/internal/domain"
)

type errorResponse struct {
	Success      bool   `json:"success"`
	Error        string `json:"error"`
	RetryAfter   int    `json:"retryAfterSeconds,omitempty"`
	AlreadyVoted bool   `json:"alreadyVoted,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Success: false, Error: message})
}

// writeDomainError maps the error taxonomy to user-presentable responses.
// Anything outside the taxonomy is an internal fault and stays opaque.
func writeDomainError(w http.ResponseWriter, err error) {
	var rateLimited *domain.RateLimitedError
	if errors.As(err, &rateLimited) {
		retry := int(math.Ceil(time.Until(rateLimited.ResetAt).Seconds()))
		if retry < 1 {
			retry = 1
		}
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Success:    false,
			Error:      "Too many attempts. Please try again later.",
			RetryAfter: retry,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmptyBallot),
		errors.Is(err, domain.ErrBallotTooLarge),
		errors.Is(err, domain.ErrDuplicateCategory),
		errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, domain.ErrUnknownNominee):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCredentialNotFound),
		errors.Is(err, domain.ErrCredentialExpired),
		errors.Is(err, domain.ErrCredentialMismatch):
		// One message for all three so responses do not reveal whether a
		// code exists for the address.
		writeError(w, http.StatusUnauthorized, "Invalid or expired verification code")
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrSessionIdle):
		writeError(w, http.StatusUnauthorized, "Session expired. Please sign in again.")
	case errors.Is(err, domain.ErrMaintenanceMode),
		errors.Is(err, domain.ErrVotingClosed),
		errors.Is(err, domain.ErrVotingNotStarted),
		errors.Is(err, domain.ErrVotingEnded):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrAlreadyVoted):
		writeJSON(w, http.StatusForbidden, errorResponse{
			Success:      false,
			Error:        "You have already submitted your votes. Votes are final and cannot be changed.",
			AlreadyVoted: true,
		})
	case errors.Is(err, domain.ErrIPQuotaExceeded):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
