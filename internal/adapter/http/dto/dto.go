package dto

import "github.com/gunjan1sharma/hmac-auth-builder/pkg/hmacauth"

// LoginRequest is the request body for admin login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// IssueCredentialRequest is the request body for credential issuance.
type IssueCredentialRequest struct {
	Label string `json:"label" binding:"required,min=1,max=100"`
}

// IssueCredentialResponse returns the issued pair. The secret key appears
// here exactly once and is never retrievable again.
type IssueCredentialResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// CredentialResponse is the credential view without secret material.
type CredentialResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	AccessKey string `json:"access_key"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SignPreviewRequest asks the gateway to compute a signature over a payload
// so integrators can diff their client implementation against the server.
// Options left empty fall back to the gateway signing profile.
type SignPreviewRequest struct {
	Payload   hmacauth.Payload `json:"payload" binding:"required"`
	SecretKey string           `json:"secret_key" binding:"required"`

	Method          string   `json:"method,omitempty"`
	Separator       string   `json:"separator,omitempty"`
	CanonicalFields []string `json:"canonical_fields,omitempty"`
	Algorithm       string   `json:"algorithm,omitempty"`
	Encoding        string   `json:"encoding,omitempty"`
	TimestampFormat string   `json:"timestamp_format,omitempty"`
	NonceFormat     string   `json:"nonce_format,omitempty"`

	// Fixed values for reproducible output
	Timestamp any    `json:"timestamp,omitempty"`
	Nonce     string `json:"nonce,omitempty"`
}

// SignPreviewResponse mirrors the engine's signature result, canonical
// string included.
type SignPreviewResponse struct {
	Timestamp       any    `json:"timestamp"`
	Nonce           string `json:"nonce"`
	Signature       string `json:"signature"`
	Algorithm       string `json:"algorithm"`
	Encoding        string `json:"encoding"`
	CanonicalString string `json:"canonical_string"`
}

// IngestResponse echoes back what the gateway authenticated.
type IngestResponse struct {
	AccessKey string           `json:"access_key"`
	Label     string           `json:"label"`
	Payload   hmacauth.Payload `json:"payload"`
}
