package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/domain"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/ports"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
)

// CredentialServiceImpl implements ports.CredentialService.
type CredentialServiceImpl struct {
	repo   ports.CredentialRepository
	encSvc ports.EncryptionService
}

// NewCredentialService creates a new CredentialServiceImpl.
func NewCredentialService(repo ports.CredentialRepository, encSvc ports.EncryptionService) *CredentialServiceImpl {
	return &CredentialServiceImpl{repo: repo, encSvc: encSvc}
}

// Issue creates a credential pair. The plaintext secret key is returned
// exactly once and never persisted; only its AES-GCM ciphertext is stored.
func (s *CredentialServiceImpl) Issue(ctx context.Context, label string) (*ports.IssueResult, error) {
	if label == "" {
		return nil, apperror.Validation("label must not be empty")
	}

	accessKey, err := generateRandomHex(16) // 32 hex chars
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate access key: %w", err))
	}

	secretKey, err := generateRandomHex(32) // 64 hex chars
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate secret key: %w", err))
	}

	secretKeyEnc, err := s.encSvc.Encrypt(secretKey)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}

	now := time.Now().UTC()
	cred := &domain.Credential{
		ID:           uuid.New(),
		Label:        label,
		AccessKey:    "ak_" + accessKey,
		SecretKeyEnc: secretKeyEnc,
		Status:       domain.CredentialStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, cred); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create credential: %w", err))
	}

	return &ports.IssueResult{Credential: cred, SecretKey: secretKey}, nil
}

// Get fetches a credential by access key.
func (s *CredentialServiceImpl) Get(ctx context.Context, accessKey string) (*domain.Credential, error) {
	cred, err := s.repo.GetByAccessKey(ctx, accessKey)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get credential: %w", err))
	}
	if cred == nil {
		return nil, apperror.NotFound("credential")
	}
	return cred, nil
}

// Revoke marks a credential revoked; its signatures stop verifying at the
// gateway immediately.
func (s *CredentialServiceImpl) Revoke(ctx context.Context, accessKey string) error {
	cred, err := s.Get(ctx, accessKey)
	if err != nil {
		return err
	}
	if !cred.IsActive() {
		return apperror.ErrCredentialRevoked()
	}
	if err := s.repo.UpdateStatus(ctx, cred.ID, domain.CredentialStatusRevoked); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("revoke credential: %w", err))
	}
	return nil
}

// ResolveSecret returns the credential and its decrypted signing secret.
// Revoked credentials do not resolve.
func (s *CredentialServiceImpl) ResolveSecret(ctx context.Context, accessKey string) (*domain.Credential, string, error) {
	cred, err := s.Get(ctx, accessKey)
	if err != nil {
		return nil, "", err
	}
	if !cred.IsActive() {
		return nil, "", apperror.ErrCredentialRevoked()
	}

	secret, err := s.encSvc.Decrypt(cred.SecretKeyEnc)
	if err != nil {
		return nil, "", apperror.ErrEncryptionFailure(err)
	}
	return cred, secret, nil
}

// generateRandomHex generates a random hex string of n bytes.
func generateRandomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
