package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gunjan1sharma/hmac-auth-builder/internal/adapter/http/dto"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/domain"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/ports"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/response"
)

// CredentialHandler handles credential lifecycle endpoints.
type CredentialHandler struct {
	credSvc ports.CredentialService
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(credSvc ports.CredentialService) *CredentialHandler {
	return &CredentialHandler{credSvc: credSvc}
}

// Issue handles POST /api/v1/credentials.
func (h *CredentialHandler) Issue(c *gin.Context) {
	var req dto.IssueCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.credSvc.Issue(c.Request.Context(), req.Label)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.IssueCredentialResponse{
		ID:        result.Credential.ID.String(),
		Label:     result.Credential.Label,
		AccessKey: result.Credential.AccessKey,
		SecretKey: result.SecretKey,
		Status:    string(result.Credential.Status),
		CreatedAt: result.Credential.CreatedAt.Format(time.RFC3339),
	})
}

// Get handles GET /api/v1/credentials/:accessKey.
func (h *CredentialHandler) Get(c *gin.Context) {
	cred, err := h.credSvc.Get(c.Request.Context(), c.Param("accessKey"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, credentialView(cred))
}

// Revoke handles DELETE /api/v1/credentials/:accessKey.
func (h *CredentialHandler) Revoke(c *gin.Context) {
	accessKey := c.Param("accessKey")
	if err := h.credSvc.Revoke(c.Request.Context(), accessKey); err != nil {
		response.Error(c, err)
		return
	}

	cred, err := h.credSvc.Get(c.Request.Context(), accessKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, credentialView(cred))
}

func credentialView(cred *domain.Credential) dto.CredentialResponse {
	return dto.CredentialResponse{
		ID:        cred.ID.String(),
		Label:     cred.Label,
		AccessKey: cred.AccessKey,
		Status:    string(cred.Status),
		CreatedAt: cred.CreatedAt.Format(time.RFC3339),
		UpdatedAt: cred.UpdatedAt.Format(time.RFC3339),
	}
}
