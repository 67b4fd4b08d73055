// Package memory provides process-local store implementations. They are a
// single-instance fallback only: state does not survive restarts and is not
// shared across replicas. Multi-instance deployments must use the durable
// Postgres implementations instead.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mari/awards-voting/internal/domain"
	"gorm.io/gorm"
)

type credentialKey struct {
	email string
	kind  domain.CredentialKind
}

type CredentialStore struct {
	mu       sync.Mutex
	byKey    map[credentialKey]*domain.Credential
	byDigest map[string]*domain.Credential
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		byKey:    make(map[credentialKey]*domain.Credential),
		byDigest: make(map[string]*domain.Credential),
	}
}

func (s *CredentialStore) Replace(ctx context.Context, cred *domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := credentialKey{email: cred.Email, kind: cred.Kind}
	if prior, ok := s.byKey[key]; ok {
		delete(s.byDigest, prior.TokenDigest)
	}
	copied := *cred
	s.byKey[key] = &copied
	if copied.TokenDigest != "" {
		s.byDigest[copied.TokenDigest] = &copied
	}
	return nil
}

func (s *CredentialStore) GetByEmailAndKind(ctx context.Context, email string, kind domain.CredentialKind) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.byKey[credentialKey{email: email, kind: kind}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cred
	return &copied, nil
}

func (s *CredentialStore) GetByTokenDigest(ctx context.Context, digest string) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.byDigest[digest]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cred
	return &copied, nil
}

func (s *CredentialStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, cred := range s.byKey {
		if cred.ID == id {
			delete(s.byDigest, cred.TokenDigest)
			delete(s.byKey, key)
			return nil
		}
	}
	return nil
}

func (s *CredentialStore) DeleteExpired(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, cred := range s.byKey {
		if cred.Expired(now) {
			delete(s.byDigest, cred.TokenDigest)
			delete(s.byKey, key)
		}
	}
	return nil
}
