package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/domain"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/ports"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/ports/mocks"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/hmacauth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testNonceTTL = 2 * time.Minute

func newHMACRouter(credSvc *mocks.MockCredentialService, nonceStore *mocks.MockNonceStore) *gin.Engine {
	router := gin.New()
	router.POST("/test", HMACAuth(credSvc, nonceStore, hmacauth.DefaultVerificationConfig(), testNonceTTL, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return router
}

// signedRequest builds a request whose headers carry a real signature over body.
func signedRequest(t *testing.T, body, secret string, mutate func(cfg *hmacauth.SigningConfig)) *http.Request {
	t.Helper()

	payload := hmacauth.Payload{"amount": 50000, "currency": "INR"}
	cfg := hmacauth.DefaultSigningConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	result, err := hmacauth.GenerateSignature(payload, secret, cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
	req.Header.Set(HeaderAccessKey, "ak_valid")
	req.Header.Set(HeaderSignature, result.Signature)
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(result.Timestamp.(int64), 10))
	req.Header.Set(HeaderNonce, result.Nonce)
	return req
}

func activeCredential() *domain.Credential {
	return &domain.Credential{
		ID:        uuid.New(),
		AccessKey: "ak_valid",
		Status:    domain.CredentialStatusActive,
	}
}

func TestHMACAuth_MissingHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := newHMACRouter(mocks.NewMockCredentialService(ctrl), mocks.NewMockNonceStore(ctrl))

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_001")
}

func TestHMACAuth_UnknownAccessKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credSvc := mocks.NewMockCredentialService(ctrl)
	credSvc.EXPECT().ResolveSecret(gomock.Any(), "ak_valid").Return(nil, "", apperror.NotFound("credential"))

	router := newHMACRouter(credSvc, mocks.NewMockNonceStore(ctrl))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, `{"amount":50000,"currency":"INR"}`, "whatever-secret", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_001")
}

func TestHMACAuth_RevokedCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credSvc := mocks.NewMockCredentialService(ctrl)
	credSvc.EXPECT().ResolveSecret(gomock.Any(), "ak_valid").Return(nil, "", apperror.ErrCredentialRevoked())

	router := newHMACRouter(credSvc, mocks.NewMockNonceStore(ctrl))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, `{"amount":50000,"currency":"INR"}`, "whatever-secret", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_003")
}

func TestHMACAuth_ReplayedNonce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credSvc := mocks.NewMockCredentialService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	credSvc.EXPECT().ResolveSecret(gomock.Any(), "ak_valid").Return(activeCredential(), "signing-secret", nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), "ak_valid", gomock.Any(), testNonceTTL).Return(false, nil)

	router := newHMACRouter(credSvc, nonceStore)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, `{"amount":50000,"currency":"INR"}`, "signing-secret", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_004")
}

func TestHMACAuth_TamperedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credSvc := mocks.NewMockCredentialService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	credSvc.EXPECT().ResolveSecret(gomock.Any(), "ak_valid").Return(activeCredential(), "signing-secret", nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), "ak_valid", gomock.Any(), testNonceTTL).Return(true, nil)

	router := newHMACRouter(credSvc, nonceStore)

	// Signature covers amount=50000 but body carries amount=999999
	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, `{"amount":999999,"currency":"INR"}`, "signing-secret", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_002")
}

func TestHMACAuth_WrongSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credSvc := mocks.NewMockCredentialService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	credSvc.EXPECT().ResolveSecret(gomock.Any(), "ak_valid").Return(activeCredential(), "server-side-secret", nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), "ak_valid", gomock.Any(), testNonceTTL).Return(true, nil)

	router := newHMACRouter(credSvc, nonceStore)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, `{"amount":50000,"currency":"INR"}`, "client-side-secret", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_002")
}

func TestHMACAuth_ExpiredTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credSvc := mocks.NewMockCredentialService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	credSvc.EXPECT().ResolveSecret(gomock.Any(), "ak_valid").Return(activeCredential(), "signing-secret", nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), "ak_valid", gomock.Any(), testNonceTTL).Return(true, nil)

	router := newHMACRouter(credSvc, nonceStore)

	// Signed two hours ago — digest is correct but freshness fails
	req := signedRequest(t, `{"amount":50000,"currency":"INR"}`, "signing-secret", func(cfg *hmacauth.SigningConfig) {
		cfg.Timestamp = time.Now().Add(-2 * time.Hour).UnixMilli()
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_003")
}

func TestHMACAuth_NonJSONBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credSvc := mocks.NewMockCredentialService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	credSvc.EXPECT().ResolveSecret(gomock.Any(), "ak_valid").Return(activeCredential(), "signing-secret", nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), "ak_valid", gomock.Any(), testNonceTTL).Return(true, nil)

	router := newHMACRouter(credSvc, nonceStore)

	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString("not json"))
	req.Header.Set(HeaderAccessKey, "ak_valid")
	req.Header.Set(HeaderSignature, "sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(time.Now().UnixMilli(), 10))
	req.Header.Set(HeaderNonce, "nonce-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_005")
}

func TestHMACAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credSvc := mocks.NewMockCredentialService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	cred := activeCredential()
	credSvc.EXPECT().ResolveSecret(gomock.Any(), "ak_valid").Return(cred, "signing-secret", nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), "ak_valid", gomock.Any(), testNonceTTL).Return(true, nil)

	var capturedPayload hmacauth.Payload
	router := gin.New()
	router.POST("/test", HMACAuth(credSvc, nonceStore, hmacauth.DefaultVerificationConfig(), testNonceTTL, zerolog.Nop()), func(c *gin.Context) {
		p, _ := c.Get(CtxPayloadKey)
		capturedPayload = p.(hmacauth.Payload)
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, `{"amount":50000,"currency":"INR"}`, "signing-secret", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, capturedPayload, "amount")
	assert.Contains(t, capturedPayload, "currency")
}

func TestHMACAuth_NonceStoreDegraded_AllowsRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credSvc := mocks.NewMockCredentialService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	credSvc.EXPECT().ResolveSecret(gomock.Any(), "ak_valid").Return(activeCredential(), "signing-secret", nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), "ak_valid", gomock.Any(), testNonceTTL).Return(false, assert.AnError)

	router := newHMACRouter(credSvc, nonceStore)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, `{"amount":50000,"currency":"INR"}`, "signing-secret", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)

	router := gin.New()
	router.GET("/admin", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		sub, _ := c.Get(CtxSubjectKey)
		c.JSON(200, gin.H{"subject": sub})
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		tokenSvc.EXPECT().Validate("bad-token").Return(nil, assert.AnError)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		tokenSvc.EXPECT().Validate("good-token").Return(&ports.TokenClaims{Subject: "admin"}, nil)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin")
	})
}

func TestMaxBodySize(t *testing.T) {
	router := gin.New()
	router.POST("/limited", MaxBodySize(16), func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(200, gin.H{"ok": true})
	})

	small := httptest.NewRequest(http.MethodPost, "/limited", bytes.NewBufferString(`{"a":1}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, small)
	assert.Equal(t, http.StatusOK, w.Code)

	big := httptest.NewRequest(http.MethodPost, "/limited", bytes.NewBufferString(`{"a":"`+string(bytes.Repeat([]byte("x"), 64))+`"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
