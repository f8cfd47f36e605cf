package hmacauth

import (
	"io"
	"time"

	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
)

// SignatureMethod selects the canonicalization strategy.
type SignatureMethod string

const (
	SignatureMethodCanonical SignatureMethod = "canonical"
	SignatureMethodJSON      SignatureMethod = "json"
)

// HashAlgorithm names the keyed-hash function.
type HashAlgorithm string

const (
	AlgorithmSHA256 HashAlgorithm = "sha256"
	AlgorithmSHA512 HashAlgorithm = "sha512"
	AlgorithmSHA384 HashAlgorithm = "sha384"
	AlgorithmSHA1   HashAlgorithm = "sha1"
	AlgorithmMD5    HashAlgorithm = "md5"
)

// Encoding names the digest output encoding.
type Encoding string

const (
	EncodingHex       Encoding = "hex"       // lowercase hex digits
	EncodingBase64    Encoding = "base64"    // standard alphabet, padded
	EncodingBase64URL Encoding = "base64url" // URL-safe alphabet, padding stripped
)

// TimestampFormat selects how the timestamp is generated and rendered.
type TimestampFormat string

const (
	TimestampMilliseconds TimestampFormat = "milliseconds"
	TimestampSeconds      TimestampFormat = "seconds"
	TimestampUnix         TimestampFormat = "unix" // alias of seconds
	TimestampISO8601      TimestampFormat = "iso8601"
)

// NonceFormat selects the nonce generation strategy.
type NonceFormat string

const (
	NonceUUIDv4       NonceFormat = "uuid-v4"
	NonceUUIDv1       NonceFormat = "uuid-v1"
	NonceRandomHex    NonceFormat = "random-hex"    // 16 random bytes, lowercase hex
	NonceRandomBase64 NonceFormat = "random-base64" // 16 random bytes, padded base64
	NonceCustom       NonceFormat = "custom"        // caller-supplied generator
)

// MinSecretLength is the minimum-strength floor for secret keys, counted in
// characters. It is not a claim of cryptographic sufficiency.
const MinSecretLength = 8

// SigningConfig controls canonicalization and signing. Treat a config as
// immutable once it is handed to the engine; the engine never modifies it.
//
// Zero values are not defaults. Start from DefaultSigningConfig and adjust
// fields, otherwise the enumerated fields fail validation.
type SigningConfig struct {
	SignatureMethod SignatureMethod
	// Separator joins the parts in canonical mode. Values are not escaped,
	// so a field value containing the separator can collide with a
	// different payload. Known limitation; escaping would change the wire
	// format.
	Separator string
	// CanonicalFields, when non-empty, fixes the field order in canonical
	// mode. Every named field must exist in the payload. When empty, all
	// payload keys are used, sorted by byte value ascending.
	CanonicalFields []string
	HashAlgorithm   HashAlgorithm
	Encoding        Encoding
	TimestampFormat TimestampFormat
	NonceFormat     NonceFormat
	// IncludeTimestamp and IncludeNonce fold those values into the signed
	// content.
	IncludeTimestamp bool
	IncludeNonce     bool
	// SortJSONKeys sorts the top-level keys in json mode. Nested object
	// keys are always serialized sorted (Go maps carry no insertion order).
	SortJSONKeys bool

	// Timestamp, when non-nil, bypasses timestamp generation. Accepts an
	// integer (epoch value), a json.Number, or a string rendered verbatim.
	// Verification uses this hook to re-derive with the received value.
	Timestamp any
	// Nonce, when non-empty, bypasses nonce generation.
	Nonce string
	// NonceGenerator is required when NonceFormat is custom.
	NonceGenerator func() string
	// Rand is the source for random nonce bytes. Nil means crypto/rand.
	Rand io.Reader
}

// VerificationConfig extends SigningConfig with the freshness gate.
type VerificationConfig struct {
	SigningConfig
	// TimestampTolerance bounds the acceptable absolute drift between the
	// received timestamp and the verifier's clock.
	TimestampTolerance time.Duration
}

// DefaultSigningConfig returns the interoperable defaults: canonical mode,
// "|" separator, HMAC-SHA256, lowercase hex, millisecond timestamps, uuid-v4
// nonces, timestamp and nonce folded into the signed content.
func DefaultSigningConfig() SigningConfig {
	return SigningConfig{
		SignatureMethod:  SignatureMethodCanonical,
		Separator:        "|",
		HashAlgorithm:    AlgorithmSHA256,
		Encoding:         EncodingHex,
		TimestampFormat:  TimestampMilliseconds,
		NonceFormat:      NonceUUIDv4,
		IncludeTimestamp: true,
		IncludeNonce:     true,
		SortJSONKeys:     true,
	}
}

// DefaultVerificationConfig returns DefaultSigningConfig plus a 5 minute
// timestamp tolerance.
func DefaultVerificationConfig() VerificationConfig {
	return VerificationConfig{
		SigningConfig:      DefaultSigningConfig(),
		TimestampTolerance: 5 * time.Minute,
	}
}

var (
	validMethods = map[SignatureMethod]bool{
		SignatureMethodCanonical: true,
		SignatureMethodJSON:      true,
	}
	validAlgorithms = map[HashAlgorithm]bool{
		AlgorithmSHA256: true,
		AlgorithmSHA512: true,
		AlgorithmSHA384: true,
		AlgorithmSHA1:   true,
		AlgorithmMD5:    true,
	}
	validEncodings = map[Encoding]bool{
		EncodingHex:       true,
		EncodingBase64:    true,
		EncodingBase64URL: true,
	}
	validTimestampFormats = map[TimestampFormat]bool{
		TimestampMilliseconds: true,
		TimestampSeconds:      true,
		TimestampUnix:         true,
		TimestampISO8601:      true,
	}
	validNonceFormats = map[NonceFormat]bool{
		NonceUUIDv4:       true,
		NonceUUIDv1:       true,
		NonceRandomHex:    true,
		NonceRandomBase64: true,
		NonceCustom:       true,
	}
)

// Validate checks every enumerated field against its legal set and the
// custom-generator companion requirement. The first violation is returned.
func (c SigningConfig) Validate() error {
	if !validMethods[c.SignatureMethod] {
		return apperror.ErrUnsupportedOption("signature method", string(c.SignatureMethod))
	}
	if !validAlgorithms[c.HashAlgorithm] {
		return apperror.ErrUnsupportedOption("hash algorithm", string(c.HashAlgorithm))
	}
	if !validEncodings[c.Encoding] {
		return apperror.ErrUnsupportedOption("encoding", string(c.Encoding))
	}
	if !validTimestampFormats[c.TimestampFormat] {
		return apperror.ErrUnsupportedOption("timestamp format", string(c.TimestampFormat))
	}
	if !validNonceFormats[c.NonceFormat] {
		return apperror.ErrUnsupportedOption("nonce format", string(c.NonceFormat))
	}
	if c.NonceFormat == NonceCustom && c.NonceGenerator == nil {
		return apperror.ErrMissingNonceGenerator()
	}
	return nil
}
