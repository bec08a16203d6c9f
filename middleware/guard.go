package middleware

import (
	"net/http"

	"github.com/MrEthical07/stackguard"
	"github.com/MrEthical07/stackguard/permission"
	"github.com/gin-gonic/gin"
)

// RequireRole must run after [Authenticate].
func RequireRole(engine *stackguard.Engine, roles ...permission.Role) gin.HandlerFunc {
	return guard(func(c *gin.Context, identity *stackguard.Identity) error {
		return engine.RequireRole(c.Request.Context(), identity, roles...)
	})
}

// RequirePermission must run after [Authenticate].
func RequirePermission(engine *stackguard.Engine, perm permission.Permission) gin.HandlerFunc {
	return guard(func(c *gin.Context, identity *stackguard.Identity) error {
		return engine.RequirePermission(c.Request.Context(), identity, perm)
	})
}

// RequireTeamParam checks membership of the team named by the route
// parameter param, e.g. "teamId" for /teams/:teamId/dependencies.
func RequireTeamParam(engine *stackguard.Engine, param string) gin.HandlerFunc {
	return guard(func(c *gin.Context, identity *stackguard.Identity) error {
		return engine.RequireTeamMembership(c.Request.Context(), identity, c.Param(param))
	})
}

func guard(check func(*gin.Context, *stackguard.Identity) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err := check(c, session.Identity); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
