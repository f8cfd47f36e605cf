package apperror

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Signing Configuration (CFG) ----

// ErrUnsupportedOption reports a config field holding a value outside its
// enumerated legal set.
func ErrUnsupportedOption(field string, value string) *AppError {
	return New("CFG_001", fmt.Sprintf("unsupported %s: %q", field, value), http.StatusBadRequest)
}

func ErrMissingNonceGenerator() *AppError {
	return New("CFG_002", "nonce format is custom but no generator was supplied", http.StatusBadRequest)
}

// ---- Input Validation (VAL) ----

func ErrEmptyPayload() *AppError {
	return New("VAL_001", "payload must not be empty", http.StatusBadRequest)
}

func ErrWeakSecret(minLen int) *AppError {
	return New("VAL_002", fmt.Sprintf("secret key must be at least %d characters", minLen), http.StatusBadRequest)
}

// ErrUnknownCanonicalFields reports canonicalFields entries absent from the payload.
func ErrUnknownCanonicalFields(missing []string) *AppError {
	return New("VAL_003", fmt.Sprintf("canonical fields missing from payload: %s", strings.Join(missing, ", ")), http.StatusBadRequest)
}

func ErrUnsupportedValue(field string, goType string) *AppError {
	return New("VAL_004", fmt.Sprintf("payload field %q holds unsupported type %s", field, goType), http.StatusBadRequest)
}

// ---- Generation (GEN) ----

// ErrGeneration wraps a failure inside the signing pipeline, tagged with the
// step that failed (timestamp, nonce, canonicalize, sign).
func ErrGeneration(step string, err error) *AppError {
	return Wrap("GEN_001", fmt.Sprintf("signature generation failed at %s step", step), http.StatusInternalServerError, err)
}

// ---- Security & Request Authentication (SEC) ----

func ErrInvalidAccessKey() *AppError {
	return New("SEC_001", "Invalid access key", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

func ErrMalformedRequest(message string) *AppError {
	return New("SEC_005", message, http.StatusBadRequest)
}

// ---- Admin Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrCredentialRevoked() *AppError {
	return New("AUTH_003", "Credential has been revoked", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// NotFound returns a not-found error for a missing entity.
func NotFound(entity string) *AppError {
	return New("SYS_404", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// Validation returns a generic bad-request validation error.
func Validation(message string) *AppError {
	return New("VAL_000", message, http.StatusBadRequest)
}
