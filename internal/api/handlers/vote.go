package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mari/awards-voting/internal/api/middleware"
	"github.com/mari/awards-voting/internal/domain"
	"github.com/mari/awards-voting/internal/service"
)

type VoteHandler struct {
	voting *service.VotingService
}

func NewVoteHandler(voting *service.VotingService) *VoteHandler {
	return &VoteHandler{voting: voting}
}

type SubmitVotesRequest struct {
	Votes []domain.VoteEntry `json:"votes"`
}

// Submit records the user's complete ballot. Confirmations echo categories
// and timestamps only; the chosen nominees never appear in the response.
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Please sign in to vote")
		return
	}

	var req SubmitVotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	confirmations, err := h.voting.SubmitVotes(
		r.Context(),
		user,
		middleware.ClientIP(r),
		r.UserAgent(),
		req.Votes,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	noun := "categories"
	if len(confirmations) == 1 {
		noun = "category"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully voted in %d %s. A confirmation email has been sent.", len(confirmations), noun),
		"data":    confirmations,
	})
}

// Status reports whether the user has already submitted their ballot.
func (h *VoteHandler) Status(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Please sign in")
		return
	}

	hasVoted, err := h.voting.HasVoted(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"hasVoted": hasVoted,
	})
}
