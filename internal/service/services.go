package service

import (
	"time"

	"github.com/mari/awards-voting/internal/config"
	"github.com/mari/awards-voting/internal/email"
	"github.com/mari/awards-voting/internal/ratelimit"
	"github.com/mari/awards-voting/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Session *SessionService
	Voting  *VotingService
}

func NewServices(repos *repository.Repositories, sender email.Sender, cfg *config.Config) *Services {
	loginLimiter := ratelimit.NewTieredLimiter(ratelimit.Config{
		Minute: ratelimit.Tier{Max: cfg.LoginRatePerMin, Window: time.Minute},
		Hour:   ratelimit.Tier{Max: cfg.LoginRatePerHour, Window: time.Hour},
		Day:    ratelimit.Tier{Max: cfg.LoginRatePerDay, Window: 24 * time.Hour},
	})
	voteAttempts := ratelimit.NewTieredLimiter(ratelimit.Config{
		Hour: ratelimit.Tier{Max: cfg.VoteAttemptsPerHr, Window: time.Hour},
	})

	return &Services{
		Auth:    NewAuthService(repos.User, repos.Credential, loginLimiter, sender, cfg),
		Session: NewSessionService(repos.Session, cfg),
		Voting:  NewVotingService(repos.Vote, repos.Category, repos.Settings, voteAttempts, sender, cfg),
	}
}
