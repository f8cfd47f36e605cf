package ports

import (
	"context"
	"time"

	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/domain"

	"github.com/google/uuid"
)

// --- Repository Ports (Storage) ---

// CredentialRepository persists issued API credentials.
type CredentialRepository interface {
	Create(ctx context.Context, c *domain.Credential) error
	// GetByAccessKey returns nil, nil when no credential matches.
	GetByAccessKey(ctx context.Context, accessKey string) (*domain.Credential, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Credential, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CredentialStatus) error
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, accessKey string, nonce string, ttl time.Duration) (bool, error)
}

// --- Service Ports ---

// EncryptionService seals and opens stored credential secrets.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// TokenService handles management-API bearer tokens.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed token claims.
type TokenClaims struct {
	Subject string
}

// CredentialService is the credential lifecycle business logic.
type CredentialService interface {
	// Issue creates a credential; the plaintext secret is returned exactly once.
	Issue(ctx context.Context, label string) (*IssueResult, error)
	Get(ctx context.Context, accessKey string) (*domain.Credential, error)
	Revoke(ctx context.Context, accessKey string) error
	// ResolveSecret returns the credential and its decrypted signing secret.
	ResolveSecret(ctx context.Context, accessKey string) (*domain.Credential, string, error)
}

// IssueResult is the issuance output shown once.
type IssueResult struct {
	Credential *domain.Credential
	SecretKey  string // plaintext, never persisted
}

// AdminService authenticates management-API operators.
type AdminService interface {
	// Login validates credentials and returns a bearer token with its expiry.
	Login(username, password string) (string, time.Time, error)
}

// HealthChecker checks external dependency health.
type HealthChecker interface {
	// Ping verifies connectivity. Returns nil if healthy.
	Ping(ctx context.Context) error
	// Name returns the dependency name (e.g., "postgresql", "redis").
	Name() string
}
