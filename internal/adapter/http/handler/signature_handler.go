package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gunjan1sharma/hmac-auth-builder/internal/adapter/http/dto"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/adapter/http/middleware"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/domain"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/hmacauth"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/response"
)

// SignatureHandler exposes the signing engine for integration debugging.
type SignatureHandler struct {
	profile hmacauth.SigningConfig
}

// NewSignatureHandler creates a new SignatureHandler. profile is the
// gateway-wide signing configuration previews default to.
func NewSignatureHandler(profile hmacauth.SigningConfig) *SignatureHandler {
	return &SignatureHandler{profile: profile}
}

// Preview handles POST /api/v1/sign/preview. It computes a signature the way
// a client would, returning the canonical string so integrators can diff
// their implementation against the gateway.
func (h *SignatureHandler) Preview(c *gin.Context) {
	var req dto.SignPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	cfg := h.profile
	if req.Method != "" {
		cfg.SignatureMethod = hmacauth.SignatureMethod(req.Method)
	}
	if req.Separator != "" {
		cfg.Separator = req.Separator
	}
	if len(req.CanonicalFields) > 0 {
		cfg.CanonicalFields = req.CanonicalFields
	}
	if req.Algorithm != "" {
		cfg.HashAlgorithm = hmacauth.HashAlgorithm(req.Algorithm)
	}
	if req.Encoding != "" {
		cfg.Encoding = hmacauth.Encoding(req.Encoding)
	}
	if req.TimestampFormat != "" {
		cfg.TimestampFormat = hmacauth.TimestampFormat(req.TimestampFormat)
	}
	if req.NonceFormat != "" {
		cfg.NonceFormat = hmacauth.NonceFormat(req.NonceFormat)
	}
	if req.Timestamp != nil {
		cfg.Timestamp = req.Timestamp
	}
	if req.Nonce != "" {
		cfg.Nonce = req.Nonce
	}

	result, err := hmacauth.GenerateSignature(req.Payload, req.SecretKey, cfg)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SignPreviewResponse{
		Timestamp:       result.Timestamp,
		Nonce:           result.Nonce,
		Signature:       result.Signature,
		Algorithm:       string(result.Algorithm),
		Encoding:        string(result.Encoding),
		CanonicalString: result.CanonicalString,
	})
}

// Ingest handles POST /api/v1/ingest. The route sits behind HMACAuth; by the
// time this runs the payload has been authenticated, so it just echoes back
// what was verified.
func Ingest(c *gin.Context) {
	payload, _ := c.Get(middleware.CtxPayloadKey)
	credVal, _ := c.Get(middleware.CtxCredentialKey)

	cred, ok := credVal.(*domain.Credential)
	if !ok {
		response.Error(c, apperror.InternalError(nil))
		return
	}

	p, _ := payload.(hmacauth.Payload)
	response.OK(c, dto.IngestResponse{
		AccessKey: cred.AccessKey,
		Label:     cred.Label,
		Payload:   p,
	})
}
