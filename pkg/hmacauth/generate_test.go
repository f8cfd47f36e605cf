package hmacauth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
)

func specPayload() Payload {
	return Payload{
		"property_id":    "PROP123",
		"aadhaar_number": "123456789012",
		"consent":        true,
	}
}

const specSecret = "ALT_TM_ADMINNLT65XER"

func TestGenerateSignature_SpecVector(t *testing.T) {
	cfg := DefaultSigningConfig()
	cfg.Timestamp = int64(1700000000000)
	cfg.Nonce = "test-nonce-12345"

	res, err := GenerateSignature(specPayload(), specSecret, cfg)
	require.NoError(t, err)

	assert.Equal(t, "1700000000000|test-nonce-12345|123456789012|1|PROP123", res.CanonicalString)
	assert.Equal(t, "0f04a8728ed006b886978d727b33fe9fc41830b780d154f43477f9cfa8932ddc", res.Signature)
	assert.Equal(t, int64(1700000000000), res.Timestamp)
	assert.Equal(t, "test-nonce-12345", res.Nonce)
	assert.Equal(t, AlgorithmSHA256, res.Algorithm)
	assert.Equal(t, EncodingHex, res.Encoding)
}

func TestGenerateSignature_Deterministic(t *testing.T) {
	cfg := DefaultSigningConfig()
	cfg.Timestamp = int64(1700000000000)
	cfg.Nonce = "fixed-nonce"

	first, err := GenerateSignature(specPayload(), specSecret, cfg)
	require.NoError(t, err)
	second, err := GenerateSignature(specPayload(), specSecret, cfg)
	require.NoError(t, err)

	assert.Equal(t, first.CanonicalString, second.CanonicalString)
	assert.Equal(t, first.Signature, second.Signature)
}

func TestGenerateSignature_EmptyPayloadFails(t *testing.T) {
	_, err := GenerateSignature(Payload{}, specSecret, DefaultSigningConfig())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestGenerateSignature_ShortSecretFails(t *testing.T) {
	_, err := GenerateSignature(specPayload(), "short", DefaultSigningConfig())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_002", appErr.Code)
}

func TestGenerateSignature_EightCharSecretPasses(t *testing.T) {
	_, err := GenerateSignature(specPayload(), "12345678", DefaultSigningConfig())
	assert.NoError(t, err)
}

func TestGenerateSignature_InvalidEnumFails(t *testing.T) {
	for _, mutate := range []func(*SigningConfig){
		func(c *SigningConfig) { c.SignatureMethod = "yaml" },
		func(c *SigningConfig) { c.HashAlgorithm = "blake2" },
		func(c *SigningConfig) { c.Encoding = "base58" },
		func(c *SigningConfig) { c.TimestampFormat = "rfc1123" },
		func(c *SigningConfig) { c.NonceFormat = "snowflake" },
	} {
		cfg := DefaultSigningConfig()
		mutate(&cfg)

		_, err := GenerateSignature(specPayload(), specSecret, cfg)
		require.Error(t, err)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "CFG_001", appErr.Code)
	}
}

func TestGenerateSignature_CustomNonceWithoutGeneratorFails(t *testing.T) {
	cfg := DefaultSigningConfig()
	cfg.NonceFormat = NonceCustom

	_, err := GenerateSignature(specPayload(), specSecret, cfg)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CFG_002", appErr.Code)
}

func TestGenerateSignature_CustomNonceGenerator(t *testing.T) {
	cfg := DefaultSigningConfig()
	cfg.NonceFormat = NonceCustom
	cfg.NonceGenerator = func() string { return "caller-nonce-1" }

	res, err := GenerateSignature(specPayload(), specSecret, cfg)
	require.NoError(t, err)
	assert.Equal(t, "caller-nonce-1", res.Nonce)
}

func TestGenerateSignature_CustomNonceEmptyOutputFails(t *testing.T) {
	cfg := DefaultSigningConfig()
	cfg.NonceFormat = NonceCustom
	cfg.NonceGenerator = func() string { return "" }

	_, err := GenerateSignature(specPayload(), specSecret, cfg)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "GEN_001", appErr.Code)
}

func TestGenerateSignature_MissingCanonicalFieldFails(t *testing.T) {
	cfg := DefaultSigningConfig()
	cfg.CanonicalFields = []string{"property_id", "ghost"}

	_, err := GenerateSignature(specPayload(), specSecret, cfg)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_003", appErr.Code)
	assert.Contains(t, appErr.Message, "ghost")
}

func TestGenerateNonce_Formats(t *testing.T) {
	uuidPattern := `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`

	cfg := DefaultSigningConfig()
	cfg.NonceFormat = NonceUUIDv4
	n, err := GenerateNonce(cfg)
	require.NoError(t, err)
	assert.Regexp(t, uuidPattern, n)

	cfg.NonceFormat = NonceUUIDv1
	n, err = GenerateNonce(cfg)
	require.NoError(t, err)
	assert.Regexp(t, uuidPattern, n)

	cfg.NonceFormat = NonceRandomHex
	n, err = GenerateNonce(cfg)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{32}$`, n)

	cfg.NonceFormat = NonceRandomBase64
	n, err = GenerateNonce(cfg)
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Za-z0-9+/]{22}==$`, n)
}

func TestGenerateNonce_DeterministicRandSource(t *testing.T) {
	cfg := DefaultSigningConfig()
	cfg.NonceFormat = NonceRandomHex
	cfg.Rand = strings.NewReader("0123456789abcdef")

	n, err := GenerateNonce(cfg)
	require.NoError(t, err)
	assert.Equal(t, "30313233343536373839616263646566", n)
}

func TestGenerateNonce_OverrideBypassesGeneration(t *testing.T) {
	cfg := DefaultSigningConfig()
	cfg.NonceFormat = NonceCustom // would fail: no generator
	cfg.Nonce = "override-nonce"

	n, err := GenerateNonce(cfg)
	require.NoError(t, err)
	assert.Equal(t, "override-nonce", n)
}

func TestGenerateTimestamp_Formats(t *testing.T) {
	before := time.Now()

	cfg := DefaultSigningConfig()
	ts := GenerateTimestamp(cfg)
	ms, ok := ts.(int64)
	require.True(t, ok)
	assert.InDelta(t, before.UnixMilli(), ms, 5000)

	cfg.TimestampFormat = TimestampSeconds
	ts = GenerateTimestamp(cfg)
	sec, ok := ts.(int64)
	require.True(t, ok)
	assert.InDelta(t, before.Unix(), sec, 5)

	cfg.TimestampFormat = TimestampUnix
	_, ok = GenerateTimestamp(cfg).(int64)
	assert.True(t, ok)

	cfg.TimestampFormat = TimestampISO8601
	iso, ok := GenerateTimestamp(cfg).(string)
	require.True(t, ok)
	parsed, err := time.Parse(isoMillisLayout, iso)
	require.NoError(t, err)
	assert.InDelta(t, before.Unix(), parsed.Unix(), 5)
}

func TestGenerateTimestamp_OverridePassthrough(t *testing.T) {
	cfg := DefaultSigningConfig()
	cfg.Timestamp = int64(1700000000000)
	assert.Equal(t, int64(1700000000000), GenerateTimestamp(cfg))

	cfg.Timestamp = "2023-11-14T22:13:20.000Z"
	assert.Equal(t, "2023-11-14T22:13:20.000Z", GenerateTimestamp(cfg))
}
