package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gunjan1sharma/hmac-auth-builder/internal/adapter/http/dto"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/ports"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/response"
)

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	adminSvc ports.AdminService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(adminSvc ports.AdminService) *AuthHandler {
	return &AuthHandler{adminSvc: adminSvc}
}

// Login handles POST /api/v1/auth/token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	token, expiry, err := h.adminSvc.Login(req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
