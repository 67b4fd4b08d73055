package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mari/awards-voting/internal/domain"
	"github.com/mari/awards-voting/internal/repository"
)

type AdminHandler struct {
	settingsRepo repository.SettingsRepository
}

func NewAdminHandler(settingsRepo repository.SettingsRepository) *AdminHandler {
	return &AdminHandler{settingsRepo: settingsRepo}
}

func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsRepo.GetVotingSettings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    settings,
	})
}

type UpdateSettingsRequest struct {
	VotingOpen      *bool      `json:"votingOpen,omitempty"`
	VotingStartAt   *time.Time `json:"votingStartAt,omitempty"`
	VotingEndAt     *time.Time `json:"votingEndAt,omitempty"`
	ResultsPublic   *bool      `json:"resultsPublic,omitempty"`
	MaintenanceMode *bool      `json:"maintenanceMode,omitempty"`
	MaxVotesPerIP   *int       `json:"maxVotesPerIp,omitempty"`
}

// UpdateSettings applies the provided fields; omitted fields are untouched.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	updates := map[string]string{}
	if req.VotingOpen != nil {
		updates[domain.SettingVotingOpen] = strconv.FormatBool(*req.VotingOpen)
	}
	if req.VotingStartAt != nil {
		updates[domain.SettingVotingStartAt] = req.VotingStartAt.Format(time.RFC3339)
	}
	if req.VotingEndAt != nil {
		updates[domain.SettingVotingEndAt] = req.VotingEndAt.Format(time.RFC3339)
	}
	if req.ResultsPublic != nil {
		updates[domain.SettingResultsPublic] = strconv.FormatBool(*req.ResultsPublic)
	}
	if req.MaintenanceMode != nil {
		updates[domain.SettingMaintenanceMode] = strconv.FormatBool(*req.MaintenanceMode)
	}
	if req.MaxVotesPerIP != nil {
		updates[domain.SettingMaxVotesPerIP] = strconv.Itoa(*req.MaxVotesPerIP)
	}

	for key, value := range updates {
		if err := h.settingsRepo.Set(ctx, key, value); err != nil {
			writeDomainError(w, err)
			return
		}
	}

	settings, err := h.settingsRepo.GetVotingSettings(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    settings,
	})
}
