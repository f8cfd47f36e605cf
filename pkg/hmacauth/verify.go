package hmacauth

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FailureReason classifies why verification did not succeed.
type FailureReason string

const (
	ReasonTimestampExpired  FailureReason = "timestamp_expired"
	ReasonSignatureMismatch FailureReason = "signature_mismatch"
	ReasonVerificationError FailureReason = "verification_error"
)

// VerificationResult reports the outcome of one verification call. Expected
// and Received are populated only on a signature mismatch, for diagnostics.
// TimestampAge is zero when the received timestamp was not numeric and no
// freshness check applied.
type VerificationResult struct {
	Valid bool `json:"valid"`
	// Reason is empty when Valid.
	Reason FailureReason `json:"reason,omitempty"`
	// Detail is a human-readable elaboration of Reason.
	Detail   string `json:"detail,omitempty"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
	// TimestampAge marshals as nanoseconds, time.Duration's native unit.
	TimestampAge time.Duration `json:"timestamp_age,omitempty"`
}

// VerifySignature checks a received signature against the payload by
// re-running generation with the received timestamp and nonce substituted as
// overrides, so the exact canonicalization path is shared between both
// sides. receivedTimestamp is carried as a string, its transport form.
//
// It never returns an error: verification runs on untrusted input, and every
// failure mode, including internal ones, becomes an invalid result with a
// classification. The freshness gate fires before the digest comparison and
// is reported even when the digests would have matched.
func VerifySignature(payload Payload, secretKey, receivedSignature, receivedTimestamp, receivedNonce string, cfg VerificationConfig) (result *VerificationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = &VerificationResult{
				Reason: ReasonVerificationError,
				Detail: fmt.Sprintf("panic during verification: %v", r),
			}
		}
	}()

	genCfg := cfg.SigningConfig
	genCfg.Timestamp = receivedTimestamp
	genCfg.Nonce = receivedNonce

	expected, err := GenerateSignature(payload, secretKey, genCfg)
	if err != nil {
		return &VerificationResult{
			Reason: ReasonVerificationError,
			Detail: err.Error(),
		}
	}

	var age time.Duration
	if ms, ok := parseEpochMillis(receivedTimestamp); ok {
		age = time.Since(time.UnixMilli(ms))
		if age < 0 {
			age = -age
		}
		if age > cfg.TimestampTolerance {
			return &VerificationResult{
				Reason:       ReasonTimestampExpired,
				Detail:       fmt.Sprintf("timestamp age %dms exceeds tolerance %dms", age.Milliseconds(), cfg.TimestampTolerance.Milliseconds()),
				TimestampAge: age,
			}
		}
	}

	if !ConstantTimeEquals(expected.Signature, receivedSignature) {
		return &VerificationResult{
			Reason:       ReasonSignatureMismatch,
			Detail:       "computed signature does not match received signature",
			Expected:     expected.Signature,
			Received:     receivedSignature,
			TimestampAge: age,
		}
	}

	return &VerificationResult{
		Valid:        true,
		TimestampAge: age,
	}
}

// parseEpochMillis interprets a numeric timestamp string as epoch
// milliseconds. Values above the 10-decimal-digit magnitude threshold are
// already milliseconds; smaller values are seconds-scale and multiplied by
// 1000. Non-numeric strings (iso8601 renderings) report false.
func parseEpochMillis(s string) (int64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if math.Abs(v) > 9999999999 {
		return int64(v), true
	}
	return int64(v * 1000), true
}
