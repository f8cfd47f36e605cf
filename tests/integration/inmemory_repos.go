package integration

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/domain"
)

// inMemoryCredentialRepo is a map-backed ports.CredentialRepository for
// integration tests.
type inMemoryCredentialRepo struct {
	mu    sync.RWMutex
	byKey map[string]*domain.Credential
	byID  map[uuid.UUID]*domain.Credential
}

func newInMemoryCredentialRepo() *inMemoryCredentialRepo {
	return &inMemoryCredentialRepo{
		byKey: make(map[string]*domain.Credential),
		byID:  make(map[uuid.UUID]*domain.Credential),
	}
}

func (r *inMemoryCredentialRepo) Create(ctx context.Context, c *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byKey[c.AccessKey] = &cp
	r.byID[c.ID] = &cp
	return nil
}

func (r *inMemoryCredentialRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byKey[accessKey]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryCredentialRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryCredentialRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CredentialStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil
	}
	c.Status = status
	return nil
}
