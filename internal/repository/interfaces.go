package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mari/awards-voting/internal/domain"
)

type UserRepository interface {
	// UpsertByEmail creates the user on first login or refreshes last_login
	// on subsequent ones. Keyed on the unique email constraint so two
	// concurrent first logins cannot create two rows.
	UpsertByEmail(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error
}

type CredentialRepository interface {
	// Replace stores a credential, displacing any outstanding one for the
	// same (email, kind).
	Replace(ctx context.Context, cred *domain.Credential) error
	GetByEmailAndKind(ctx context.Context, email string, kind domain.CredentialKind) (*domain.Credential, error)
	GetByTokenDigest(ctx context.Context, digest string) (*domain.Credential, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateActivity(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) error
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetAll(ctx context.Context) ([]*domain.Category, error)
	GetNomineeByID(ctx context.Context, id uuid.UUID) (*domain.Nominee, error)
}

type VoteRepository interface {
	// CreateBatch inserts every vote in one transaction; either the whole
	// ballot commits or none of it does.
	CreateBatch(ctx context.Context, votes []*domain.Vote) error
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Vote, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByIP(ctx context.Context, ip string) (int64, error)
}

type SettingsRepository interface {
	GetVotingSettings(ctx context.Context) (*domain.VotingSettings, error)
	Set(ctx context.Context, key, value string) error
}

type Repositories struct {
	User       UserRepository
	Credential CredentialRepository
	Session    SessionRepository
	Category   CategoryRepository
	Vote       VoteRepository
	Settings   SettingsRepository
}
