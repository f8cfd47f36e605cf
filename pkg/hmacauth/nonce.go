package hmacauth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"io"

	"github.com/google/uuid"

	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
)

// nonceByteLen is the entropy for the random-hex and random-base64 formats.
const nonceByteLen = 16

// GenerateNonce returns the config's override nonce when present, otherwise
// a fresh nonce per NonceFormat. Randomness comes from cfg.Rand, defaulting
// to crypto/rand; this is a security property, the source must be a CSPRNG.
func GenerateNonce(cfg SigningConfig) (string, error) {
	if cfg.Nonce != "" {
		return cfg.Nonce, nil
	}

	switch cfg.NonceFormat {
	case NonceUUIDv4:
		return uuid.NewString(), nil
	case NonceUUIDv1:
		id, err := uuid.NewUUID()
		if err != nil {
			return "", apperror.ErrGeneration("nonce", err)
		}
		return id.String(), nil
	case NonceRandomHex:
		b, err := randomBytes(cfg, nonceByteLen)
		if err != nil {
			return "", apperror.ErrGeneration("nonce", err)
		}
		return hex.EncodeToString(b), nil
	case NonceRandomBase64:
		b, err := randomBytes(cfg, nonceByteLen)
		if err != nil {
			return "", apperror.ErrGeneration("nonce", err)
		}
		return base64.StdEncoding.EncodeToString(b), nil
	case NonceCustom:
		if cfg.NonceGenerator == nil {
			return "", apperror.ErrMissingNonceGenerator()
		}
		n := cfg.NonceGenerator()
		if n == "" {
			return "", apperror.ErrGeneration("nonce", apperror.Validation("custom nonce generator returned an empty string"))
		}
		return n, nil
	default:
		return "", apperror.ErrUnsupportedOption("nonce format", string(cfg.NonceFormat))
	}
}

func randomBytes(cfg SigningConfig, n int) ([]byte, error) {
	r := cfg.Rand
	if r == nil {
		r = rand.Reader
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
