package domain

import "time"

// Setting rows form a key/value store owned by the admin surface.
type Setting struct {
	Key       string    `json:"key" gorm:"primary_key"`
	Value     string    `json:"value" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Setting) TableName() string {
	return "settings"
}

// Setting keys understood by the voting core.
const (
	SettingVotingOpen      = "voting_open"
	SettingVotingStartAt   = "voting_start_date"
	SettingVotingEndAt     = "voting_end_date"
	SettingResultsPublic   = "results_public"
	SettingMaintenanceMode = "maintenance_mode"
	SettingMaxVotesPerIP   = "max_votes_per_ip"
)

// VotingSettings is the decoded configuration the admission gate evaluates.
type VotingSettings struct {
	VotingOpen      bool       `json:"votingOpen"`
	VotingStartAt   *time.Time `json:"votingStartAt,omitempty"`
	VotingEndAt     *time.Time `json:"votingEndAt,omitempty"`
	ResultsPublic   bool       `json:"resultsPublic"`
	MaintenanceMode bool       `json:"maintenanceMode"`
	MaxVotesPerIP   int        `json:"maxVotesPerIp,omitempty"`
}

// CheckAdmission decides whether voting is permitted right now. Pure function
// of configuration and clock; callers must re-evaluate on every submission
// because the window can close between page load and submit.
func (s VotingSettings) CheckAdmission(now time.Time, isAdmin bool) error {
	if s.MaintenanceMode && !isAdmin {
		return ErrMaintenanceMode
	}
	if !s.VotingOpen {
		return ErrVotingClosed
	}
	if s.VotingStartAt != nil && now.Before(*s.VotingStartAt) {
		return ErrVotingNotStarted
	}
	if s.VotingEndAt != nil && now.After(*s.VotingEndAt) {
		return ErrVotingEnded
	}
	return nil
}
