package middleware

import (
	"errors"
	"net/http"

	"github.com/MrEthical07/stackguard"
	"github.com/gin-gonic/gin"
)

// Status maps an engine error to an HTTP status and a client-safe message.
// Authentication failures share one message so responses do not reveal
// which check failed.
func Status(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, stackguard.ErrRateLimited):
		return http.StatusTooManyRequests, "too many attempts"
	case errors.Is(err, stackguard.ErrAccountLocked):
		return http.StatusLocked, "account locked"
	case errors.Is(err, stackguard.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, stackguard.ErrInvalidCredentials),
		errors.Is(err, stackguard.ErrTokenMalformed),
		errors.Is(err, stackguard.ErrTokenExpired),
		errors.Is(err, stackguard.ErrRevoked),
		errors.Is(err, stackguard.ErrUserGone),
		errors.Is(err, stackguard.ErrStalePassword),
		errors.Is(err, stackguard.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, stackguard.ErrCredentialStoreUnavailable),
		errors.Is(err, stackguard.ErrEngineNotReady):
		return http.StatusServiceUnavailable, "service unavailable"
	default:
		return http.StatusInternalServerError, "server error"
	}
}

// AbortWithError writes the mapped status and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	status, msg := Status(err)
	abort(c, status, msg)
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
