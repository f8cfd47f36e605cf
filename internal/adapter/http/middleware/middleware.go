package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/ports"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/hmacauth"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/response"
)

const (
	// Header names for HMAC authentication
	HeaderAccessKey = "X-Access-Key"
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"

	// Context keys
	CtxCredentialID  = "credential_id"
	CtxAccessKey     = "access_key"
	CtxCredentialKey = "credential"
	CtxPayloadKey    = "payload"
	CtxSubjectKey    = "subject"
)

// HMACAuth creates a middleware that authenticates requests by their HMAC
// signature headers. Pipeline: resolve credential -> check nonce -> verify
// signature against the JSON body.
//
// The parsed body is stored in the context under CtxPayloadKey and the raw
// bytes are restored on the request so handlers can bind as usual.
func HMACAuth(
	credSvc ports.CredentialService,
	nonceStore ports.NonceStore,
	verifyCfg hmacauth.VerificationConfig,
	nonceTTL time.Duration,
	log zerolog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessKey := c.GetHeader(HeaderAccessKey)
		signature := c.GetHeader(HeaderSignature)
		timestamp := c.GetHeader(HeaderTimestamp)
		nonce := c.GetHeader(HeaderNonce)

		if accessKey == "" || signature == "" || timestamp == "" || nonce == "" {
			response.Error(c, apperror.ErrInvalidAccessKey())
			c.Abort()
			return
		}

		// Step 1: Resolve the credential and its signing secret
		cred, secretKey, err := credSvc.ResolveSecret(c.Request.Context(), accessKey)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Code == "SYS_404" {
				response.Error(c, apperror.ErrInvalidAccessKey())
			} else {
				response.Error(c, err)
			}
			c.Abort()
			return
		}

		// Step 2: Nonce replay check
		isNew, err := nonceStore.CheckAndSet(c.Request.Context(), accessKey, nonce, nonceTTL)
		if err != nil {
			log.Warn().Err(err).Msg("nonce store error, allowing request")
		} else if !isNew {
			response.Error(c, apperror.ErrNonceUsed())
			c.Abort()
			return
		}

		// Step 3: Signature verification against the JSON body
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.ErrMalformedRequest("cannot read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		payload, err := decodePayload(bodyBytes)
		if err != nil {
			response.Error(c, apperror.ErrMalformedRequest("request body must be a JSON object"))
			c.Abort()
			return
		}

		result := hmacauth.VerifySignature(payload, secretKey, signature, timestamp, nonce, verifyCfg)
		if !result.Valid {
			log.Warn().
				Str("access_key", accessKey).
				Str("reason", string(result.Reason)).
				Str("detail", result.Detail).
				Msg("signature verification failed")

			switch result.Reason {
			case hmacauth.ReasonTimestampExpired:
				response.Error(c, apperror.ErrTimestampExpired())
			case hmacauth.ReasonSignatureMismatch:
				response.Error(c, apperror.ErrInvalidSignature())
			default:
				response.Error(c, apperror.ErrMalformedRequest(result.Detail))
			}
			c.Abort()
			return
		}

		c.Set(CtxCredentialID, cred.ID)
		c.Set(CtxAccessKey, cred.AccessKey)
		c.Set(CtxCredentialKey, cred)
		c.Set(CtxPayloadKey, payload)

		c.Next()
	}
}

// decodePayload parses the body as a JSON object, keeping numbers verbatim so
// signing and verification render them identically.
func decodePayload(body []byte) (hmacauth.Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload hmacauth.Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// JWTAuth creates a middleware that validates bearer tokens for the
// management API.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		tokenStr := authHeader[7:]
		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxSubjectKey, claims.Subject)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// MaxBodySize returns middleware that limits the request body size.
// Once the limit is exceeded the reader returns an error and the
// request is rejected with 413 Payload Too Large.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
