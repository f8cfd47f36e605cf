package hmacauth

import (
	"unicode/utf8"

	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
)

// SignatureResult is the output of one signing call. Timestamp is int64 for
// the epoch formats and string for iso8601. CanonicalString is the exact
// byte string that was signed, exposed for debugging and audit.
type SignatureResult struct {
	Timestamp       any           `json:"timestamp"`
	Nonce           string        `json:"nonce"`
	Signature       string        `json:"signature"`
	Algorithm       HashAlgorithm `json:"algorithm"`
	Encoding        Encoding      `json:"encoding"`
	CanonicalString string        `json:"canonical_string"`
}

// GenerateSignature runs the full pipeline: validate inputs, generate or
// reuse the timestamp and nonce, canonicalize, sign. Any failing step aborts
// the call; there are no partial results. The first violation found during
// validation short-circuits.
func GenerateSignature(payload Payload, secretKey string, cfg SigningConfig) (*SignatureResult, error) {
	if err := validateInputs(payload, secretKey, cfg); err != nil {
		return nil, err
	}

	ts := GenerateTimestamp(cfg)

	nonce, err := GenerateNonce(cfg)
	if err != nil {
		return nil, err
	}

	canonical, err := Canonicalize(payload, ts, nonce, cfg)
	if err != nil {
		return nil, err
	}

	signature, err := Sign(canonical, secretKey, cfg)
	if err != nil {
		return nil, err
	}

	return &SignatureResult{
		Timestamp:       ts,
		Nonce:           nonce,
		Signature:       signature,
		Algorithm:       cfg.HashAlgorithm,
		Encoding:        cfg.Encoding,
		CanonicalString: canonical,
	}, nil
}

func validateInputs(payload Payload, secretKey string, cfg SigningConfig) error {
	if len(payload) == 0 {
		return apperror.ErrEmptyPayload()
	}
	if utf8.RuneCountInString(secretKey) < MinSecretLength {
		return apperror.ErrWeakSecret(MinSecretLength)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(cfg.CanonicalFields) > 0 {
		if missing := missingFields(payload, cfg.CanonicalFields); len(missing) > 0 {
			return apperror.ErrUnknownCanonicalFields(missing)
		}
	}
	return nil
}
