package middleware

import (
	"net/http"
	"strings"

	"github.com/MrEthical07/stackguard"
	"github.com/gin-gonic/gin"
)

// Authenticate resolves the bearer token through the engine and stores the
// session on the request context. The client IP is attached first so audit
// events for rejected tokens carry it.
func Authenticate(engine *stackguard.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		ctx := stackguard.WithClientIP(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		session, err := engine.Authenticate(ctx, token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(stackguard.WithSession(ctx, session))
		c.Next()
	}
}

// ClientIP attaches the caller address for routes that run before
// authentication, such as login.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(stackguard.WithClientIP(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}

// SessionFrom returns the session stored by [Authenticate].
func SessionFrom(c *gin.Context) (*stackguard.Session, bool) {
	if c == nil || c.Request == nil {
		return nil, false
	}
	return stackguard.SessionFromContext(c.Request.Context())
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
