package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mari/awards-voting/internal/config"
	"github.com/mari/awards-voting/internal/domain"
	"github.com/mari/awards-voting/internal/email"
	"github.com/mari/awards-voting/internal/ratelimit"
	"github.com/mari/awards-voting/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// sendTimeout bounds fire-and-forget email dispatch so an unresponsive sink
// cannot pile up goroutines.
const sendTimeout = 30 * time.Second

// AuthService issues and consumes one-time credentials and resolves verified
// emails to user records.
type AuthService struct {
	userRepo repository.UserRepository
	credRepo repository.CredentialRepository
	limiter  ratelimit.Limiter
	sender   email.Sender
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, credRepo repository.CredentialRepository, limiter ratelimit.Limiter, sender email.Sender, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		credRepo: credRepo,
		limiter:  limiter,
		sender:   sender,
		cfg:      cfg,
	}
}

// RequestCredential issues a fresh one-time credential for the email and
// hands it to the delivery sink. The caller's response must not depend on
// whether the email is already registered.
func (s *AuthService) RequestCredential(ctx context.Context, rawEmail string, kind domain.CredentialKind) error {
	if !domain.ValidEmail(rawEmail) {
		return domain.ErrInvalidEmail
	}
	addr := domain.NormalizeEmail(rawEmail)

	if allowed, resetAt := s.limiter.Allow(addr); !allowed {
		slog.Warn("login rate limit exceeded", "email", addr, "reset_at", resetAt)
		return &domain.RateLimitedError{ResetAt: resetAt}
	}

	now := time.Now()
	cred := &domain.Credential{
		ID:        uuid.New(),
		Email:     addr,
		Kind:      kind,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.CredentialTTL),
	}

	var deliver func(ctx context.Context) error
	switch kind {
	case domain.CredentialOTP:
		code, err := generateOTP()
		if err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		cred.CodeHash = string(hash)
		deliver = func(ctx context.Context) error {
			return s.sender.SendOTP(ctx, addr, code)
		}
	case domain.CredentialMagic:
		token, err := generateToken()
		if err != nil {
			return err
		}
		cred.TokenDigest = hashToken(token)
		link := fmt.Sprintf("%s/verify?token=%s&email=%s", s.cfg.AppURL, token, url.QueryEscape(addr))
		deliver = func(ctx context.Context) error {
			return s.sender.SendMagicLink(ctx, addr, link)
		}
	default:
		return fmt.Errorf("unknown credential kind %q", kind)
	}

	// Replacing any outstanding credential for (email, kind) invalidates the
	// prior code even if it has not expired.
	if err := s.credRepo.Replace(ctx, cred); err != nil {
		return err
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := deliver(sendCtx); err != nil {
			slog.Error("credential delivery failed", "email", addr, "kind", kind, "error", err)
		}
	}()

	return nil
}

// VerifyOTP consumes the outstanding code for the email. The credential is
// deleted on success and on expiry; a wrong code leaves it in place for a
// retry within the rate limit.
func (s *AuthService) VerifyOTP(ctx context.Context, rawEmail, code string) (string, error) {
	addr := domain.NormalizeEmail(rawEmail)

	cred, err := s.credRepo.GetByEmailAndKind(ctx, addr, domain.CredentialOTP)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("otp verification failed: no outstanding code", "email", addr)
			return "", domain.ErrCredentialNotFound
		}
		return "", err
	}

	if cred.Expired(time.Now()) {
		_ = s.credRepo.Delete(ctx, cred.ID)
		slog.Warn("expired otp used", "email", addr)
		return "", domain.ErrCredentialExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.CodeHash), []byte(code)) != nil {
		slog.Warn("wrong otp code", "email", addr)
		return "", domain.ErrCredentialMismatch
	}

	// One-time use: gone on first success.
	if err := s.credRepo.Delete(ctx, cred.ID); err != nil {
		return "", err
	}
	return addr, nil
}

// VerifyMagicToken consumes a magic-link token. Lookup is by SHA-256 digest,
// so no byte-by-byte secret comparison ever happens.
func (s *AuthService) VerifyMagicToken(ctx context.Context, token string) (string, error) {
	cred, err := s.credRepo.GetByTokenDigest(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("invalid magic token attempt")
			return "", domain.ErrCredentialNotFound
		}
		return "", err
	}

	if cred.Expired(time.Now()) {
		_ = s.credRepo.Delete(ctx, cred.ID)
		slog.Warn("expired magic token used", "email", cred.Email)
		return "", domain.ErrCredentialExpired
	}

	if err := s.credRepo.Delete(ctx, cred.ID); err != nil {
		return "", err
	}
	return cred.Email, nil
}

// Authenticate resolves a verified email to a user, creating the record on
// first login. The upsert is keyed on the unique email index, so concurrent
// first logins for the same address converge on one row.
func (s *AuthService) Authenticate(ctx context.Context, verifiedEmail string) (*domain.User, error) {
	addr := domain.NormalizeEmail(verifiedEmail)
	now := time.Now()

	user := &domain.User{
		ID:        uuid.New(),
		Email:     addr,
		IsAdmin:   s.isAdminEmail(addr),
		LastLogin: &now,
	}
	if err := s.userRepo.UpsertByEmail(ctx, user); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, addr)
	if err != nil {
		return nil, err
	}

	// The configured admin list can promote an existing user but never
	// demotes one.
	if s.isAdminEmail(addr) && !user.IsAdmin {
		user.IsAdmin = true
		if err := s.userRepo.SetAdmin(ctx, user.ID, true); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) isAdminEmail(addr string) bool {
	return slices.Contains(s.cfg.AdminEmails, addr)
}
