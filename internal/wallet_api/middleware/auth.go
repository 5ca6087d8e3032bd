package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paywave-wallet-ledger/internal/platform/auth"
	"github.com/paywave-wallet-ledger/internal/wallet_api/response"
)

// UserIDKey is the key used to store the authenticated user id in the context
const UserIDKey = "user_id"

// Auth middleware verifies the bearer token and stores the authenticated user
// id in the request context. Requests without a valid token are aborted with
// 401 before reaching any handler.
func Auth(logger *slog.Logger, verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			logger.Warn("Rejected bearer token", "path", c.Request.URL.Path, "error", err)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user id from the gin context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(UserIDKey); exists {
		if userID, ok := v.(uuid.UUID); ok {
			return userID, true
		}
	}
	return uuid.Nil, false
}

func abortUnauthorized(c *gin.Context, message string) {
	resp := response.NewError("UNAUTHORIZED", message)
	resp.CorrelationID = GetCorrelationID(c)
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}
