package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mari/awards-voting/internal/config"
	"github.com/mari/awards-voting/internal/domain"
	"github.com/mari/awards-voting/internal/repository"
	"gorm.io/gorm"
)

// SessionService issues, validates, and revokes the bearer sessions that
// authorize every privileged request.
type SessionService struct {
	sessionRepo repository.SessionRepository
	cfg         *config.Config
}

func NewSessionService(sessionRepo repository.SessionRepository, cfg *config.Config) *SessionService {
	return &SessionService{sessionRepo: sessionRepo, cfg: cfg}
}

// Create opens a session for the user and returns the raw bearer token for
// the cookie. Only the token's SHA-256 digest is persisted.
func (s *SessionService) Create(ctx context.Context, user *domain.User, ip string) (string, *domain.Session, error) {
	token, err := generateToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	session := &domain.Session{
		ID:             uuid.New(),
		TokenHash:      hashToken(token),
		UserID:         user.ID,
		Email:          user.Email,
		IPAddress:      ip,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", nil, err
	}

	slog.Info("session created", "email", user.Email, "ip", ip)
	return token, session, nil
}

// Validate resolves a bearer token to a live session, enforcing absolute
// expiry and the idle timeout. Dead sessions are deleted on the spot. An IP
// change is logged but does not invalidate the session; legitimate users
// roam between networks.
func (s *SessionService) Validate(ctx context.Context, token, currentIP string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	tokenHash := hashToken(token)
	session, err := s.sessionRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	now := time.Now()
	if session.Expired(now) {
		_ = s.sessionRepo.DeleteByTokenHash(ctx, tokenHash)
		return nil, domain.ErrSessionExpired
	}
	if session.Idle(now, s.cfg.SessionIdleTTL) {
		slog.Warn("session idle timeout", "email", session.Email)
		_ = s.sessionRepo.DeleteByTokenHash(ctx, tokenHash)
		return nil, domain.ErrSessionIdle
	}

	if session.IPAddress != "" && currentIP != "" && session.IPAddress != currentIP {
		slog.Warn("session ip mismatch", "email", session.Email,
			"bound_ip", session.IPAddress, "current_ip", currentIP)
	}

	if err := s.sessionRepo.UpdateActivity(ctx, session.ID, now); err != nil {
		return nil, err
	}
	session.LastActivityAt = now

	return session, nil
}

// Destroy is idempotent; destroying an unknown token is not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.DeleteByTokenHash(ctx, hashToken(token))
}

// Rotate replaces a session with a fresh one for the same user. Called at
// login so a pre-authentication session id can never be fixed onto an
// authenticated user.
func (s *SessionService) Rotate(ctx context.Context, oldToken string, user *domain.User, ip string) (string, *domain.Session, error) {
	if err := s.Destroy(ctx, oldToken); err != nil {
		return "", nil, err
	}
	return s.Create(ctx, user, ip)
}

// DeleteExpired clears dead sessions in bulk. Lazy deletion on access keeps
// the system correct without it; this only bounds table growth.
func (s *SessionService) DeleteExpired(ctx context.Context) error {
	return s.sessionRepo.DeleteExpired(ctx, time.Now())
}
