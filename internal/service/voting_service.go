package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mari/awards-voting/internal/config"
	"github.com/mari/awards-voting/internal/domain"
	"github.com/mari/awards-voting/internal/email"
	"github.com/mari/awards-voting/internal/ratelimit"
	"github.com/mari/awards-voting/internal/repository"
	"gorm.io/gorm"
)

// VotingService accepts complete ballots and enforces the one-vote-per-user-
// per-category invariant. The application-level prior-vote check is a fast
// path; the unique index on (user_id, category_id) is the authoritative
// serialization point under concurrent submissions.
type VotingService struct {
	voteRepo     repository.VoteRepository
	categoryRepo repository.CategoryRepository
	settingsRepo repository.SettingsRepository
	attempts     ratelimit.Limiter
	sender       email.Sender
	cfg          *config.Config
}

func NewVotingService(voteRepo repository.VoteRepository, categoryRepo repository.CategoryRepository, settingsRepo repository.SettingsRepository, attempts ratelimit.Limiter, sender email.Sender, cfg *config.Config) *VotingService {
	return &VotingService{
		voteRepo:     voteRepo,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
		attempts:     attempts,
		sender:       sender,
		cfg:          cfg,
	}
}

// SubmitVotes commits the whole ballot atomically or rejects it entirely.
// Once any vote exists for the user, the ballot is final: every later
// submission fails with ErrAlreadyVoted regardless of content.
func (s *VotingService) SubmitVotes(ctx context.Context, user *domain.User, ip, userAgent string, entries []domain.VoteEntry) ([]domain.VoteConfirmation, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptyBallot
	}
	if len(entries) > s.cfg.MaxBallotSize {
		return nil, domain.ErrBallotTooLarge
	}
	seen := make(map[uuid.UUID]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.CategoryID] {
			return nil, domain.ErrDuplicateCategory
		}
		seen[entry.CategoryID] = true
	}

	// The admission gate is evaluated fresh on every submission; the window
	// can close between page load and submit.
	settings, err := s.settingsRepo.GetVotingSettings(ctx)
	if err != nil {
		return nil, err
	}
	if err := settings.CheckAdmission(time.Now(), user.IsAdmin); err != nil {
		return nil, err
	}

	if allowed, resetAt := s.attempts.Allow(user.ID.String()); !allowed {
		slog.Warn("vote submission attempts exceeded", "email", user.Email)
		return nil, &domain.RateLimitedError{ResetAt: resetAt}
	}

	count, err := s.voteRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		slog.Warn("repeat ballot submission rejected", "email", user.Email, "ip", ip)
		return nil, domain.ErrAlreadyVoted
	}

	// Coarse anti-fraud heuristic; shared networks are expected to collide.
	if settings.MaxVotesPerIP > 0 {
		ipCount, err := s.voteRepo.CountByIP(ctx, ip)
		if err != nil {
			return nil, err
		}
		if ipCount >= int64(settings.MaxVotesPerIP) {
			slog.Warn("network vote quota exceeded", "ip", ip)
			return nil, domain.ErrIPQuotaExceeded
		}
	}

	// Referential integrity: any bad entry aborts the whole batch before a
	// single row is written.
	for _, entry := range entries {
		if _, err := s.categoryRepo.GetByID(ctx, entry.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUnknownCategory
			}
			return nil, err
		}
		nominee, err := s.categoryRepo.GetNomineeByID(ctx, entry.NomineeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUnknownNominee
			}
			return nil, err
		}
		if nominee.CategoryID != entry.CategoryID {
			return nil, domain.ErrUnknownNominee
		}
	}

	meta, err := json.Marshal(domain.ClientMetadata{UserAgent: userAgent})
	if err != nil {
		return nil, err
	}

	votes := make([]*domain.Vote, 0, len(entries))
	for _, entry := range entries {
		votes = append(votes, &domain.Vote{
			ID:         uuid.New(),
			UserID:     user.ID,
			CategoryID: entry.CategoryID,
			NomineeID:  entry.NomineeID,
			IPAddress:  ip,
			ClientMeta: meta,
		})
	}

	if err := s.voteRepo.CreateBatch(ctx, votes); err != nil {
		// A concurrent submission won the race; same outcome as the
		// fast-path check above, never a generic storage failure.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			slog.Warn("concurrent double vote blocked by constraint", "email", user.Email)
			return nil, domain.ErrAlreadyVoted
		}
		return nil, err
	}

	slog.Info("ballot recorded", "email", user.Email, "categories", len(votes), "ip", ip)

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := s.sender.SendVoteConfirmation(sendCtx, user.Email, len(votes)); err != nil {
			slog.Error("vote confirmation delivery failed", "email", user.Email, "error", err)
		}
	}()

	// Confirmations name the category and time only, never the nominee.
	confirmations := make([]domain.VoteConfirmation, 0, len(votes))
	for _, vote := range votes {
		confirmations = append(confirmations, domain.VoteConfirmation{
			CategoryID: vote.CategoryID,
			CastAt:     vote.CastAt,
		})
	}
	return confirmations, nil
}

func (s *VotingService) HasVoted(ctx context.Context, userID uuid.UUID) (bool, error) {
	count, err := s.voteRepo.CountByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
