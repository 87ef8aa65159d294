package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"chargeshare/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InternalTokenAuth protects service-to-service endpoints, such as the payment
// collaborator's status callbacks, with a static bearer token. An empty
// allowedIPs list accepts any client address.
func InternalTokenAuth(token string, allowedIPs []string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ipAllowed(c.ClientIP(), allowedIPs) {
			logAuthFailure(log, c, http.StatusForbidden, "ip_not_allowed")
			response.Abort(c, http.StatusForbidden, "AUTH_INVALID", "IP not allowed")
			return
		}

		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logAuthFailure(log, c, http.StatusUnauthorized, "invalid_auth_format")
			response.Abort(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header must be 'Bearer <token>'")
			return
		}

		if token == "" {
			logAuthFailure(log, c, http.StatusInternalServerError, "token_not_configured")
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal token is not configured")
			return
		}

		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(parts[1])), []byte(token)) != 1 {
			logAuthFailure(log, c, http.StatusForbidden, "invalid_token")
			response.Abort(c, http.StatusForbidden, "AUTH_INVALID", "Invalid internal token")
			return
		}

		c.Next()
	}
}

func ipAllowed(clientIP string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, ip := range allowed {
		if ip == clientIP {
			return true
		}
	}
	return false
}

func logAuthFailure(log *zap.Logger, c *gin.Context, status int, reason string) {
	log.Warn("internal auth failed",
		zap.Int("status", status),
		zap.String("request_id", requestID(c)),
		zap.String("reason", reason),
		zap.String("client_ip", c.ClientIP()),
	)
}
