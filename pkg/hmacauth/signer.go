package hmacauth

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"hash"

	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
)

var hashConstructors = map[HashAlgorithm]func() hash.Hash{
	AlgorithmSHA256: sha256.New,
	AlgorithmSHA512: sha512.New,
	AlgorithmSHA384: sha512.New384,
	AlgorithmSHA1:   sha1.New,
	AlgorithmMD5:    md5.New,
}

// Sign computes the keyed hash over the UTF-8 bytes of canonical using the
// UTF-8 bytes of secretKey, and encodes the raw digest per cfg.Encoding.
// Unsupported algorithm/encoding values are rejected here as well, even
// though config validation should already have caught them.
func Sign(canonical string, secretKey string, cfg SigningConfig) (string, error) {
	newHash, ok := hashConstructors[cfg.HashAlgorithm]
	if !ok {
		return "", apperror.ErrUnsupportedOption("hash algorithm", string(cfg.HashAlgorithm))
	}

	mac := hmac.New(newHash, []byte(secretKey))
	mac.Write([]byte(canonical))
	return encodeDigest(mac.Sum(nil), cfg.Encoding)
}

func encodeDigest(digest []byte, encoding Encoding) (string, error) {
	switch encoding {
	case EncodingHex:
		return hex.EncodeToString(digest), nil
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(digest), nil
	case EncodingBase64URL:
		return base64.RawURLEncoding.EncodeToString(digest), nil
	default:
		return "", apperror.ErrUnsupportedOption("encoding", string(encoding))
	}
}
