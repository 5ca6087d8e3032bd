package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/paywave-wallet-ledger/internal/config"
	"github.com/paywave-wallet-ledger/internal/platform/auth"
	"github.com/paywave-wallet-ledger/internal/wallet_api/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthRouter(t *testing.T) (*gin.Engine, *uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier := auth.NewJWTVerifier(&config.AuthConfig{JWTSecret: testSecret})
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var seenUserID uuid.UUID
	r := gin.New()
	r.Use(Auth(logger, verifier))
	r.GET("/protected", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		require.True(t, ok)
		seenUserID = userID
		c.Status(http.StatusOK)
	})
	return r, &seenUserID
}

func signTestToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuth(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		router, seenUserID := newAuthRouter(t)
		userID := uuid.New()

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, userID.String()))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, userID, *seenUserID)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		router, _ := newAuthRouter(t)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("NotBearerScheme", func(t *testing.T) {
		router, _ := newAuthRouter(t)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		router, _ := newAuthRouter(t)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("RejectionUsesStandardEnvelope", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		verifier := auth.NewJWTVerifier(&config.AuthConfig{JWTSecret: testSecret})
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

		r := gin.New()
		r.Use(CorrelationID(), Auth(logger, verifier))
		r.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		var body response.Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.NotNil(t, body.Error)
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
		assert.NotEmpty(t, body.Error.Message)
		assert.NotEmpty(t, body.CorrelationID)
		assert.Nil(t, body.Data)
	})
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("NotSet", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, ok := GetUserID(c)
		assert.False(t, ok)
	})

	t.Run("WrongType", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(UserIDKey, "not-a-uuid-value")
		_, ok := GetUserID(c)
		assert.False(t, ok)
	})
}
