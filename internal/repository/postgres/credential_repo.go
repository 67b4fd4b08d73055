package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mari/awards-voting/internal/domain"
	"gorm.io/gorm"
)

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *credentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Replace(ctx context.Context, cred *domain.Credential) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ? AND kind = ?", cred.Email, cred.Kind).
			Delete(&domain.Credential{}).Error
		if err != nil {
			return err
		}
		return tx.Create(cred).Error
	})
}

func (r *credentialRepository) GetByEmailAndKind(ctx context.Context, email string, kind domain.CredentialKind) (*domain.Credential, error) {
	var cred domain.Credential
	err := r.db.WithContext(ctx).
		First(&cred, "email = ? AND kind = ?", email, kind).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) GetByTokenDigest(ctx context.Context, digest string) (*domain.Credential, error) {
	var cred domain.Credential
	err := r.db.WithContext(ctx).First(&cred, "token_digest = ?", digest).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Credential{}, "id = ?", id).Error
}

func (r *credentialRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&domain.Credential{}).Error
}
