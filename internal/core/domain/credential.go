package domain

import (
	"time"

	"github.com/google/uuid"
)

// CredentialStatus is the lifecycle state of an API credential.
type CredentialStatus string

const (
	CredentialStatusActive  CredentialStatus = "active"
	CredentialStatusRevoked CredentialStatus = "revoked"
)

// Credential is an issued API key pair. The secret key is stored encrypted
// (AES-256-GCM) and only ever shown in plaintext at issuance.
type Credential struct {
	ID           uuid.UUID
	Label        string // human-readable owner tag
	AccessKey    string // public identifier sent in X-Access-Key
	SecretKeyEnc string // encrypted HMAC secret
	Status       CredentialStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the credential may sign requests.
func (c *Credential) IsActive() bool {
	return c.Status == CredentialStatusActive
}
